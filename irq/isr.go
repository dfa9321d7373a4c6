package irq

import "blinky-go/event"

// PendingClearer acknowledges a GPIO interrupt at the peripheral.
type PendingClearer interface {
	ClearPending()
}

// ButtonISR acknowledges the pin interrupt and raises ButtonPress.
func ButtonISR(pin PendingClearer, sink event.Sink) Handler {
	return func() {
		pin.ClearPending()
		sink.Submit(event.ButtonPress())
	}
}

// TickISR raises TimeTick on every timer expiry.
func TickISR(sink event.Sink) Handler {
	return func() {
		sink.Submit(event.TimeTick())
	}
}
