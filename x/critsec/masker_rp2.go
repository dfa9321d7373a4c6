//go:build rp2040 || rp2350

package critsec

import "runtime/interrupt"

// IRQMasker masks every maskable interrupt on the core (PRIMASK).
// The state saved on Mask is restored on the matching Unmask.
type IRQMasker struct {
	state interrupt.State
}

func (m *IRQMasker) Mask()   { m.state = interrupt.Disable() }
func (m *IRQMasker) Unmask() { interrupt.Restore(m.state) }
