// Package dispatch is the foreground loop: it drains the event channel and
// hands every event to the state machines in a fixed order.
package dispatch

import (
	"context"

	"blinky-go/event"
)

// Consumer is a state machine fed by the loop. It returns at most one
// follow-up event per call.
type Consumer interface {
	Process(e event.Event) (event.Event, bool)
}

// Queue is the channel side the loop needs.
type Queue interface {
	TryTake() (event.Event, bool)
	Submit(e event.Event)
}

// Observer taps the loop. Calls happen on the foreground goroutine and must
// not block.
type Observer interface {
	Taken(e event.Event)
	Emitted(by string, e event.Event)
}

type stage struct {
	name string
	c    Consumer
}

type Loop struct {
	q      Queue
	stages []stage
	idle   func(ctx context.Context)
	obs    Observer
	steps  uint64
}

type Option func(*Loop)

// WithConsumer appends a consumer. Consumers see each event in the order
// they were added.
func WithConsumer(name string, c Consumer) Option {
	return func(l *Loop) { l.stages = append(l.stages, stage{name: name, c: c}) }
}

// WithIdle sets the hook run when the channel is empty. Without one the
// loop busy-polls.
func WithIdle(fn func(ctx context.Context)) Option { return func(l *Loop) { l.idle = fn } }

func WithObserver(o Observer) Option { return func(l *Loop) { l.obs = o } }

func New(q Queue, opts ...Option) *Loop {
	l := &Loop{q: q}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Step takes at most one event and runs it through every consumer. Each
// follow-up is submitted as soon as its producer returns; no consumer sees
// another's follow-up within the same step. Reports whether an event was
// processed.
func (l *Loop) Step() bool {
	e, ok := l.q.TryTake()
	if !ok {
		return false
	}
	l.steps++
	if l.obs != nil {
		l.obs.Taken(e)
	}
	for _, s := range l.stages {
		out, ok := s.c.Process(e)
		if !ok {
			continue
		}
		if l.obs != nil {
			l.obs.Emitted(s.name, out)
		}
		l.q.Submit(out)
	}
	return true
}

// Drain steps until the channel is empty or limit steps ran (limit <= 0
// means no limit). Returns the number of events processed.
func (l *Loop) Drain(limit int) int {
	n := 0
	for limit <= 0 || n < limit {
		if !l.Step() {
			break
		}
		n++
	}
	return n
}

// Run is the device's foreground context. On hardware it is called with a
// context that is never cancelled and does not return; only a fault or a
// reset ends it.
func (l *Loop) Run(ctx context.Context) {
	done := ctx.Done()
	for {
		select {
		case <-done:
			return
		default:
		}
		if l.Step() {
			continue
		}
		if l.idle != nil {
			l.idle(ctx)
		}
	}
}

// Steps returns the number of events processed so far.
func (l *Loop) Steps() uint64 { return l.steps }
