//go:build !rp2040 && !rp2350

// Package telemetry publishes LED and flash-sequence events off the device.
// It observes the foreground loop and never blocks it: events go through a
// bounded queue to a single publishing goroutine and are dropped when the
// queue is full.
package telemetry

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"blinky-go/event"
)

// Publisher delivers one payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
	Close() error
}

// Message is the JSON payload for one event.
type Message struct {
	Seq      uint64 `json:"seq"`
	Time     string `json:"time"`
	Tick     uint64 `json:"tick"`
	By       string `json:"by"`
	Event    string `json:"event"`
	Count    uint32 `json:"count,omitempty"`
	OnTicks  uint32 `json:"on_ticks,omitempty"`
	OffTicks uint32 `json:"off_ticks,omitempty"`
}

const defaultQueue = 32

type Sink struct {
	pub   Publisher
	topic string
	log   zerolog.Logger
	now   func() time.Time

	// foreground only
	tick uint64
	seq  uint64

	mu     sync.Mutex
	closed bool
	q      chan Message
	done   chan struct{}

	sent    atomic.Uint64
	failed  atomic.Uint64
	dropped atomic.Uint64
}

type Option func(*Sink)

func WithQueue(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.q = make(chan Message, n)
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(s *Sink) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Sink) { s.now = now } }

// New starts the publishing goroutine. Call Close to stop it.
func New(pub Publisher, topic string, opts ...Option) *Sink {
	s := &Sink{
		pub:   pub,
		topic: topic,
		log:   zerolog.Nop(),
		now:   time.Now,
		done:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.q == nil {
		s.q = make(chan Message, defaultQueue)
	}
	go s.run()
	return s
}

func (s *Sink) Taken(e event.Event) {
	if e.Kind == event.KindTimeTick {
		s.tick++
	}
}

// Emitted queues LED and sequence events.
func (s *Sink) Emitted(by string, e event.Event) {
	switch e.Kind {
	case event.KindFlashLedRequest, event.KindLedTurnOn, event.KindLedTurnOff, event.KindFlashSequenceDone:
	default:
		return
	}
	s.seq++
	m := Message{
		Seq:   s.seq,
		Time:  s.now().UTC().Format(time.RFC3339Nano),
		Tick:  s.tick,
		By:    by,
		Event: e.Kind.String(),
	}
	if e.Kind == event.KindFlashLedRequest {
		m.Count, m.OnTicks, m.OffTicks = e.Count, e.OnTime, e.OffTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.q <- m:
	default:
		s.dropped.Add(1)
	}
}

func (s *Sink) run() {
	defer close(s.done)
	for m := range s.q {
		payload, err := json.Marshal(m)
		if err == nil {
			err = s.pub.Publish(s.topic, payload)
		}
		if err != nil {
			s.failed.Add(1)
			s.log.Warn().Err(err).Str("event", m.Event).Uint64("seq", m.Seq).Msg("publish failed")
			continue
		}
		s.sent.Add(1)
	}
}

// Close publishes what is queued, then closes the publisher.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.q)
	s.mu.Unlock()

	<-s.done
	if d := s.dropped.Load(); d > 0 {
		s.log.Warn().Uint64("dropped", d).Msg("telemetry events dropped")
	}
	return s.pub.Close()
}

// Stats reports delivery counters.
type Stats struct {
	Sent, Failed, Dropped uint64
}

func (s *Sink) Stats() Stats {
	return Stats{Sent: s.sent.Load(), Failed: s.failed.Load(), Dropped: s.dropped.Load()}
}
