// Package trace provides dispatch.Observer implementations that report what
// the foreground loop takes and emits.
package trace

import (
	"io"
	"strconv"

	"blinky-go/event"
	"blinky-go/services/dispatch"
)

// Writer prints one compact line per event. It allocates nothing per call
// after warm-up, so it is safe to use over a UART on the device.
type Writer struct {
	w     io.Writer
	ticks bool
	now   uint64 // ticks seen
	buf   []byte
}

// NewWriter traces to w. TimeTick events are only printed when ticks is set,
// but are always counted for the line stamp.
func NewWriter(w io.Writer, ticks bool) *Writer {
	return &Writer{w: w, ticks: ticks, buf: make([]byte, 0, 64)}
}

func (t *Writer) Taken(e event.Event) {
	if e.Kind == event.KindTimeTick {
		t.now++
		if !t.ticks {
			return
		}
	}
	t.line("take", "", e)
}

func (t *Writer) Emitted(by string, e event.Event) {
	t.line("emit", by, e)
}

func (t *Writer) line(verb, by string, e event.Event) {
	b := t.buf[:0]
	b = append(b, 't', '=')
	b = strconv.AppendUint(b, t.now, 10)
	b = append(b, ' ')
	b = append(b, verb...)
	if by != "" {
		b = append(b, ' ')
		b = append(b, by...)
	}
	b = append(b, ' ')
	b = append(b, e.String()...)
	b = append(b, '\n')
	t.buf = b
	_, _ = t.w.Write(b)
}

// Multi fans out to several observers in order.
type Multi []dispatch.Observer

func (m Multi) Taken(e event.Event) {
	for _, o := range m {
		o.Taken(e)
	}
}

func (m Multi) Emitted(by string, e event.Event) {
	for _, o := range m {
		o.Emitted(by, e)
	}
}

// Join returns a single observer over the non-nil entries of obs, or nil.
func Join(obs ...dispatch.Observer) dispatch.Observer {
	var m Multi
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}
