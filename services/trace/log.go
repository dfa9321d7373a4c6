//go:build !rp2040 && !rp2350

package trace

import (
	"github.com/rs/zerolog"

	"blinky-go/event"
)

// Log traces through zerolog: emitted events at info, taken events at debug.
type Log struct {
	l     zerolog.Logger
	ticks bool
	now   uint64
}

func NewLog(l zerolog.Logger, ticks bool) *Log {
	return &Log{l: l, ticks: ticks}
}

func (t *Log) Taken(e event.Event) {
	if e.Kind == event.KindTimeTick {
		t.now++
		if !t.ticks {
			return
		}
	}
	t.l.Debug().Uint64("tick", t.now).Str("event", e.Kind.String()).Msg("take")
}

func (t *Log) Emitted(by string, e event.Event) {
	ev := t.l.Info().Uint64("tick", t.now).Str("by", by).Str("event", e.Kind.String())
	if e.Kind == event.KindFlashLedRequest {
		ev = ev.Uint32("count", e.Count).Uint32("on_ticks", e.OnTime).Uint32("off_ticks", e.OffTime)
	}
	ev.Msg("emit")
}
