// Package coordinator owns the user-visible policy: how many flashes to show
// and how long to pause between cycles.
package coordinator

import (
	"blinky-go/event"
	"blinky-go/services/hal"
)

// Params are the fixed timings, in ticks, and the flash colour.
type Params struct {
	InitialCount uint32
	OnTime       uint32
	OffTime      uint32
	WaitTime     uint32
	Color        hal.Color
}

// DefaultParams matches a 10 Hz tick.
func DefaultParams() Params {
	return Params{InitialCount: 1, OnTime: 4, OffTime: 3, WaitTime: 20, Color: hal.ColorRed}
}

type Coordinator struct {
	led hal.LED
	p   Params

	flashCount         uint32
	flashInProgress    bool
	pauseTimeRemaining uint32
}

func New(led hal.LED, p Params) *Coordinator {
	return &Coordinator{led: led, p: p, flashCount: p.InitialCount}
}

// Process consumes one event and returns at most one follow-up.
func (c *Coordinator) Process(e event.Event) (event.Event, bool) {
	switch e.Kind {
	case event.KindButtonPress:
		c.flashCount++

	case event.KindTimeTick:
		switch {
		case !c.flashInProgress && c.pauseTimeRemaining == 0:
			c.flashInProgress = true
			return event.FlashLedRequest(c.flashCount, c.p.OnTime, c.p.OffTime), true
		case c.pauseTimeRemaining > 0:
			c.pauseTimeRemaining--
		}

	case event.KindFlashSequenceDone:
		c.flashInProgress = false
		c.pauseTimeRemaining = c.p.WaitTime

	case event.KindLedTurnOn:
		c.led.Set(c.p.Color)

	case event.KindLedTurnOff:
		c.led.Set(hal.ColorOff)
	}
	return event.Event{}, false
}

func (c *Coordinator) FlashCount() uint32         { return c.flashCount }
func (c *Coordinator) FlashInProgress() bool      { return c.flashInProgress }
func (c *Coordinator) PauseTimeRemaining() uint32 { return c.pauseTimeRemaining }
