// Package event defines the closed set of events exchanged between interrupt
// handlers and the foreground state machines, and the channel they travel on.
package event

import "strconv"

type Kind uint8

const (
	KindNone Kind = iota
	KindButtonPress
	KindTimeTick
	KindFlashLedRequest
	KindLedTurnOn
	KindLedTurnOff
	KindFlashSequenceDone
)

func (k Kind) String() string {
	switch k {
	case KindButtonPress:
		return "ButtonPress"
	case KindTimeTick:
		return "TimeTick"
	case KindFlashLedRequest:
		return "FlashLedRequest"
	case KindLedTurnOn:
		return "LedTurnOn"
	case KindLedTurnOff:
		return "LedTurnOff"
	case KindFlashSequenceDone:
		return "FlashSequenceDone"
	default:
		return "None"
	}
}

// Event is a small value type. Only FlashLedRequest uses the numeric fields;
// times are in ticks.
type Event struct {
	Kind    Kind
	Count   uint32
	OnTime  uint32
	OffTime uint32
}

func ButtonPress() Event       { return Event{Kind: KindButtonPress} }
func TimeTick() Event          { return Event{Kind: KindTimeTick} }
func LedTurnOn() Event         { return Event{Kind: KindLedTurnOn} }
func LedTurnOff() Event        { return Event{Kind: KindLedTurnOff} }
func FlashSequenceDone() Event { return Event{Kind: KindFlashSequenceDone} }

// FlashLedRequest asks the flash controller to blink count times.
func FlashLedRequest(count, onTime, offTime uint32) Event {
	return Event{Kind: KindFlashLedRequest, Count: count, OnTime: onTime, OffTime: offTime}
}

func (e Event) String() string {
	if e.Kind != KindFlashLedRequest {
		return e.Kind.String()
	}
	// Avoid fmt: this is printed from MCU builds.
	b := make([]byte, 0, 48)
	b = append(b, "FlashLedRequest{count:"...)
	b = strconv.AppendUint(b, uint64(e.Count), 10)
	b = append(b, " on:"...)
	b = strconv.AppendUint(b, uint64(e.OnTime), 10)
	b = append(b, " off:"...)
	b = strconv.AppendUint(b, uint64(e.OffTime), 10)
	b = append(b, '}')
	return string(b)
}

// Sink accepts events. Implementations must be callable from interrupt context.
type Sink interface {
	Submit(e Event)
}
