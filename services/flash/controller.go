// Package flash implements the LED flash controller: a tick-driven state
// machine that turns a FlashLedRequest into a sequence of LedTurnOn /
// LedTurnOff events and finishes with FlashSequenceDone.
package flash

import "blinky-go/event"

type State uint8

const (
	Inactive State = iota
	Off
	On
)

func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case On:
		return "on"
	default:
		return "inactive"
	}
}

// Controller owns LED timing. All times are in ticks.
type Controller struct {
	state            State
	onTime           uint32
	offTime          uint32
	timeRemaining    uint32
	flashesRemaining uint32
	lit              bool // LedTurnOn already emitted in this On phase
}

func New() *Controller { return &Controller{} }

// Process consumes one event and returns at most one follow-up.
func (c *Controller) Process(e event.Event) (event.Event, bool) {
	switch e.Kind {
	case event.KindFlashLedRequest:
		c.request(e.Count, e.OnTime, e.OffTime)
		return event.Event{}, false
	case event.KindTimeTick:
		return c.tick()
	default:
		return event.Event{}, false
	}
}

// request always preempts whatever sequence is in flight.
func (c *Controller) request(count, onTime, offTime uint32) {
	c.onTime = onTime
	c.offTime = offTime
	c.state = On
	// The first tick's decrement lands exactly on onTime.
	c.timeRemaining = onTime + 1
	c.flashesRemaining = count
	c.lit = false
}

func (c *Controller) tick() (event.Event, bool) {
	if c.timeRemaining > 0 {
		c.timeRemaining--
	}

	switch {
	case c.state == On && !c.lit && c.timeRemaining == c.onTime && c.flashesRemaining > 0:
		c.lit = true
		return event.LedTurnOn(), true

	case c.state == On && c.timeRemaining == 0:
		// A zero-count request runs one dark phase and must not underflow.
		if c.flashesRemaining > 0 {
			c.flashesRemaining--
		}
		c.state = Off
		c.timeRemaining = c.offTime
		c.lit = false
		return event.LedTurnOff(), true

	case c.state == Off && c.timeRemaining == 0 && c.flashesRemaining > 0:
		c.state = On
		c.timeRemaining = c.onTime
		c.lit = true
		return event.LedTurnOn(), true

	case c.state == Off && c.timeRemaining == 0:
		c.state = Inactive
		return event.FlashSequenceDone(), true
	}
	return event.Event{}, false
}

func (c *Controller) State() State             { return c.state }
func (c *Controller) FlashesRemaining() uint32 { return c.flashesRemaining }
func (c *Controller) TimeRemaining() uint32    { return c.timeRemaining }
