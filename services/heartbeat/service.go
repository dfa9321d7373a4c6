// Package heartbeat prints a liveness line every so many timer ticks.
package heartbeat

import (
	"io"
	"strconv"

	"blinky-go/event"
)

// Depther reports how many events are waiting.
type Depther interface {
	Len() int
}

// Service is a dispatch.Observer. It runs on the foreground loop, so a
// stalled loop stops the heartbeat.
type Service struct {
	w     io.Writer
	every uint32
	q     Depther

	ticks uint64
	taken uint64
	since uint32
	buf   []byte
}

// New reports to w every `every` ticks. q may be nil.
func New(w io.Writer, every uint32, q Depther) *Service {
	return &Service{w: w, every: every, q: q, buf: make([]byte, 0, 64)}
}

func (s *Service) Taken(e event.Event) {
	s.taken++
	if e.Kind != event.KindTimeTick || s.every == 0 {
		return
	}
	s.ticks++
	s.since++
	if s.since < s.every {
		return
	}
	s.since = 0

	b := append(s.buf[:0], "heartbeat t="...)
	b = strconv.AppendUint(b, s.ticks, 10)
	b = append(b, " events="...)
	b = strconv.AppendUint(b, s.taken, 10)
	if s.q != nil {
		b = append(b, " queued="...)
		b = strconv.AppendInt(b, int64(s.q.Len()), 10)
	}
	b = append(b, '\n')
	s.buf = b
	_, _ = s.w.Write(b)
}

func (s *Service) Emitted(string, event.Event) {}
