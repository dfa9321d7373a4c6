package hal

import (
	"context"
	"sync"
	"sync/atomic"

	"blinky-go/irq"
)

// RecordingLED remembers every colour it was set to.
type RecordingLED struct {
	mu      sync.Mutex
	cur     Color
	history []Color
}

func (l *RecordingLED) Set(c Color) {
	l.mu.Lock()
	l.cur = c
	l.history = append(l.history, c)
	l.mu.Unlock()
}

func (l *RecordingLED) Current() Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cur
}

func (l *RecordingLED) History() []Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Color(nil), l.history...)
}

// SimButton counts interrupt acknowledgements.
type SimButton struct {
	clears atomic.Uint32
}

func (b *SimButton) ClearPending()  { b.clears.Add(1) }
func (b *SimButton) Clears() uint32 { return b.clears.Load() }

// ManualTimer records its configuration; ticks are raised by the caller.
type ManualTimer struct {
	hz atomic.Uint32
}

func (t *ManualTimer) Configure(hz uint32) error {
	t.hz.Store(hz)
	return nil
}

func (t *ManualTimer) Hz() uint32 { return t.hz.Load() }

// Sim is a fully emulated board for tests and the host simulator. Events are
// raised synchronously on the caller's goroutine, which must be the one that
// runs the foreground loop.
type Sim struct {
	*Board
	Emu   *irq.Emulator
	Lamp  *RecordingLED
	Btn   *SimButton
	Clock *ManualTimer

	attached atomic.Bool
}

func NewSim(vectors *irq.Table) *Sim {
	s := &Sim{
		Emu:   irq.NewEmulator(vectors),
		Lamp:  &RecordingLED{},
		Btn:   &SimButton{},
		Clock: &ManualTimer{},
	}
	s.Board = &Board{
		Name:      "sim",
		LED:       s.Lamp,
		Button:    s.Btn,
		Timer:     s.Clock,
		Ints:      s.Emu,
		ButtonIRQ: ButtonIRQ,
		Vectors:   vectors,
		Console:   discard{},
		attach: func() error {
			s.attached.Store(true)
			return nil
		},
		idle: func(ctx context.Context) { s.Emu.Wait(ctx) },
	}
	return s
}

// Press raises one debounced falling edge. Returns handlers run.
func (s *Sim) Press() int {
	if !s.attached.Load() {
		return 0
	}
	return s.Emu.Raise(s.ButtonIRQ)
}

// Tick raises one timer expiry if the timer has been configured.
func (s *Sim) Tick() int {
	if s.Clock.Hz() == 0 {
		return 0
	}
	return s.Emu.Raise(irq.SysTick)
}
