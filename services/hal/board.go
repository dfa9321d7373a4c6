// Package hal describes the peripheral drivers the control loop depends on
// and provides one Board per supported platform.
package hal

import (
	"context"
	"io"

	"blinky-go/irq"
	"blinky-go/services/config"
	"blinky-go/x/critsec"
)

// LED drives the indicator. Assumed infallible.
type LED interface {
	Set(c Color)
}

// Button acknowledges its edge interrupt.
type Button interface {
	irq.PendingClearer
}

// Timer arms the periodic tick interrupt.
type Timer interface {
	Configure(hz uint32) error
}

// IntController masks the core and gates individual vectors.
type IntController interface {
	critsec.Masker
	Enable(id irq.ID)
	Disable(id irq.ID)
}

// Board bundles the drivers of one platform.
type Board struct {
	Name      string
	LED       LED
	Button    Button
	Timer     Timer
	Ints      IntController
	ButtonIRQ irq.ID
	Vectors   *irq.Table // the table interrupt sources dispatch into
	Console   io.Writer  // trace output; never nil

	attach func() error
	idle   func(ctx context.Context)
	close  func() error
}

// Attach connects the hardware interrupt sources to the vector table the
// board was opened with. Call it after the handlers are installed.
func (b *Board) Attach() error {
	if b.attach == nil {
		return nil
	}
	return b.attach()
}

// Idler returns the hook the foreground loop calls when the channel is
// empty, or nil where the loop should simply spin.
func (b *Board) Idler() func(ctx context.Context) { return b.idle }

func (b *Board) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open returns the board described by cfg, wired to dispatch into vectors.
// The "sim" board is available on every platform.
func Open(cfg config.Config, vectors *irq.Table) (*Board, error) {
	if cfg.Board == "sim" {
		return NewSim(vectors).Board, nil
	}
	return openPlatform(cfg, vectors)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
