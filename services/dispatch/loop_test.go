// services/dispatch/loop_test.go
package dispatch

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"

	"blinky-go/event"
	"blinky-go/x/critsec"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recConsumer struct {
	seen []event.Event
	emit func(event.Event) (event.Event, bool)
}

func (r *recConsumer) Process(e event.Event) (event.Event, bool) {
	r.seen = append(r.seen, e)
	if r.emit != nil {
		return r.emit(e)
	}
	return event.Event{}, false
}

type recObserver struct {
	taken   []event.Event
	emitted []string
}

func (o *recObserver) Taken(e event.Event) { o.taken = append(o.taken, e) }
func (o *recObserver) Emitted(by string, e event.Event) {
	o.emitted = append(o.emitted, by+":"+e.String())
}

func newChannel() *event.Channel {
	ch := event.NewChannel(critsec.New(nil))
	ch.Initialize()
	return ch
}

func TestStepFeedsSameEventInOrder(t *testing.T) {
	ch := newChannel()
	first := &recConsumer{emit: func(e event.Event) (event.Event, bool) {
		if e.Kind == event.KindTimeTick {
			return event.FlashLedRequest(1, 2, 3), true
		}
		return event.Event{}, false
	}}
	second := &recConsumer{}
	obs := &recObserver{}
	l := New(ch, WithConsumer("first", first), WithConsumer("second", second), WithObserver(obs))

	ch.Submit(event.TimeTick())
	if !l.Step() {
		t.Fatal("Step found nothing")
	}
	if len(second.seen) != 1 || second.seen[0].Kind != event.KindTimeTick {
		t.Fatalf("second saw %v", second.seen)
	}
	// Follow-up is queued for the next step, not delivered in this one.
	if ch.Len() != 1 {
		t.Fatalf("Len=%d", ch.Len())
	}
	l.Step()
	if len(second.seen) != 2 || second.seen[1].Kind != event.KindFlashLedRequest {
		t.Fatalf("second saw %v", second.seen)
	}
	if len(obs.taken) != 2 || len(obs.emitted) != 1 || obs.emitted[0] != "first:FlashLedRequest{count:1 on:2 off:3}" {
		t.Fatalf("observer taken=%v emitted=%v", obs.taken, obs.emitted)
	}
	if l.Steps() != 2 {
		t.Fatalf("Steps=%d", l.Steps())
	}
}

func TestStepTakesOneMostRecent(t *testing.T) {
	ch := newChannel()
	c := &recConsumer{}
	l := New(ch, WithConsumer("c", c))
	ch.Submit(event.ButtonPress())
	ch.Submit(event.TimeTick())

	l.Step()
	if len(c.seen) != 1 || c.seen[0].Kind != event.KindTimeTick {
		t.Fatalf("seen %v", c.seen)
	}
	if ch.Len() != 1 {
		t.Fatalf("more than one event removed: Len=%d", ch.Len())
	}
}

func TestStepEmpty(t *testing.T) {
	l := New(newChannel())
	if l.Step() {
		t.Fatal("Step on empty channel")
	}
}

func TestBothConsumersMayEmit(t *testing.T) {
	ch := newChannel()
	a := &recConsumer{emit: func(event.Event) (event.Event, bool) { return event.LedTurnOn(), true }}
	b := &recConsumer{emit: func(event.Event) (event.Event, bool) { return event.LedTurnOff(), true }}
	l := New(ch, WithConsumer("a", a), WithConsumer("b", b))
	ch.Submit(event.ButtonPress())
	l.Step()
	// LIFO: b's follow-up was submitted last.
	if e, _ := ch.TryTake(); e.Kind != event.KindLedTurnOff {
		t.Fatalf("got %v", e)
	}
	if e, _ := ch.TryTake(); e.Kind != event.KindLedTurnOn {
		t.Fatalf("got %v", e)
	}
}

func TestDrainLimit(t *testing.T) {
	ch := newChannel()
	l := New(ch)
	for i := 0; i < 5; i++ {
		ch.Submit(event.TimeTick())
	}
	if n := l.Drain(3); n != 3 {
		t.Fatalf("Drain(3)=%d", n)
	}
	if n := l.Drain(0); n != 2 {
		t.Fatalf("Drain(0)=%d", n)
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	ch := newChannel()
	idles := make(chan struct{}, 1)
	l := New(ch, WithIdle(func(ctx context.Context) {
		select {
		case idles <- struct{}{}:
		default:
		}
		select {
		case <-ctx.Done():
		case <-time.After(time.Millisecond):
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	select {
	case <-idles:
	case <-time.After(time.Second):
		t.Fatal("loop never idled")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
