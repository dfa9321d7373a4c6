package irq

import (
	"context"
	"sync/atomic"
)

// Emulator stands in for the interrupt controller on hosts. Other goroutines
// (GPIO event readers, tickers) only set pending bits; handlers always run on
// the foreground goroutine, at the points where real hardware could preempt
// it: whenever the mask is lifted, and while the loop idles in Wait.
//
// Pending bits coalesce like NVIC pending bits: pending a vector twice before
// it is serviced runs its handler once.
type Emulator struct {
	t *Table

	masked    bool // foreground only
	servicing bool // foreground only

	enabled [NumVectors]atomic.Bool
	pending [NumVectors]atomic.Bool
	wake    chan struct{}

	delivered atomic.Uint64
}

func NewEmulator(t *Table) *Emulator {
	e := &Emulator{t: t, wake: make(chan struct{}, 1)}
	// Core fault exceptions cannot be disabled.
	for _, id := range []ID{NMI, HardFault, MemManage, BusFault, UsageFault, SVCall} {
		e.enabled[id].Store(true)
	}
	return e
}

// Mask implements critsec.Masker.
func (e *Emulator) Mask() { e.masked = true }

// Unmask implements critsec.Masker. Interrupts that became pending while
// masked are taken immediately.
func (e *Emulator) Unmask() {
	e.masked = false
	e.Service()
}

func (e *Emulator) Masked() bool { return e.masked }

func (e *Emulator) Enable(id ID) {
	if int(id) < NumVectors {
		e.enabled[id].Store(true)
	}
}

func (e *Emulator) Disable(id ID) {
	if int(id) < NumVectors {
		e.enabled[id].Store(false)
	}
}

func (e *Emulator) Enabled(id ID) bool {
	return int(id) < NumVectors && e.enabled[id].Load()
}

// Pend marks id pending. Safe from any goroutine.
func (e *Emulator) Pend(id ID) {
	if int(id) >= NumVectors {
		return
	}
	e.pending[id].Store(true)
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Raise pends id and services it at once. Foreground only.
func (e *Emulator) Raise(id ID) int {
	e.Pend(id)
	return e.Service()
}

// Service runs every pending, enabled handler, lowest vector number first.
// It does nothing while masked or when called from inside a handler.
// Foreground only. Returns the number of handlers run.
func (e *Emulator) Service() int {
	if e.masked || e.servicing {
		return 0
	}
	e.servicing = true
	defer func() { e.servicing = false }()

	n := 0
	for {
		id, ok := e.next()
		if !ok {
			return n
		}
		e.t.Dispatch(id)
		e.delivered.Add(1)
		n++
	}
}

func (e *Emulator) next() (ID, bool) {
	for i := range e.pending {
		if e.enabled[i].Load() && e.pending[i].CompareAndSwap(true, false) {
			return ID(i), true
		}
	}
	return 0, false
}

// Wait services pending interrupts, blocking until at least one has been
// pended or ctx is done. Used as the foreground idle hook on hosts.
func (e *Emulator) Wait(ctx context.Context) {
	if e.Service() > 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-e.wake:
		e.Service()
	}
}

// Delivered returns the number of handlers run so far.
func (e *Emulator) Delivered() uint64 { return e.delivered.Load() }
