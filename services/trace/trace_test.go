// services/trace/trace_test.go
package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"blinky-go/event"
)

func TestWriterLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)
	w.Taken(event.TimeTick())
	w.Emitted("coordinator", event.FlashLedRequest(3, 4, 3))
	w.Taken(event.TimeTick())
	w.Taken(event.ButtonPress())
	w.Emitted("flash", event.LedTurnOn())

	want := "t=1 emit coordinator FlashLedRequest{count:3 on:4 off:3}\n" +
		"t=2 take ButtonPress\n" +
		"t=2 emit flash LedTurnOn\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriterTicks(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.Taken(event.TimeTick())
	if buf.String() != "t=1 take TimeTick\n" {
		t.Fatalf("got %q", buf.String())
	}
}

type countObs struct{ taken, emitted int }

func (c *countObs) Taken(event.Event)           { c.taken++ }
func (c *countObs) Emitted(string, event.Event) { c.emitted++ }

func TestJoin(t *testing.T) {
	if Join() != nil || Join(nil, nil) != nil {
		t.Fatal("empty Join should be nil")
	}
	a := &countObs{}
	if Join(nil, a) != a {
		t.Fatal("single observer should be returned as is")
	}
	b := &countObs{}
	m := Join(a, b)
	m.Taken(event.ButtonPress())
	m.Emitted("x", event.LedTurnOff())
	if a.taken != 1 || b.taken != 1 || a.emitted != 1 || b.emitted != 1 {
		t.Fatalf("a=%+v b=%+v", a, b)
	}
}

func TestLogFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(zerolog.New(&buf).Level(zerolog.DebugLevel), false)
	l.Taken(event.TimeTick())
	l.Emitted("coordinator", event.FlashLedRequest(2, 4, 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines=%q", lines)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["event"] != "FlashLedRequest" || rec["by"] != "coordinator" || rec["count"] != float64(2) || rec["tick"] != float64(1) {
		t.Fatalf("record %v", rec)
	}
}
