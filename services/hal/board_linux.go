//go:build linux && !baremetal

package hal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"blinky-go/irq"
	"blinky-go/services/config"
	"blinky-go/x/timex"
)

// openPlatform opens the Linux GPIO character device board. Interrupt
// sources (edge events, ticker) run on their own goroutines and only pend
// vectors on the emulator; handlers run on the foreground goroutine.
func openPlatform(cfg config.Config, vectors *irq.Table) (*Board, error) {
	emu := irq.NewEmulator(vectors)

	leds, err := gpiocdev.RequestLines(cfg.GPIO.Chip,
		[]int{cfg.GPIO.Red, cfg.GPIO.Green, cfg.GPIO.Blue},
		gpiocdev.AsOutput(0, 0, 0),
		gpiocdev.WithConsumer("blinky"))
	if err != nil {
		return nil, fmt.Errorf("request LED lines on %s: %w", cfg.GPIO.Chip, err)
	}
	led := &rgbLED{lines: leds}
	tick := &tickerTimer{emu: emu}
	btn := &lineButton{}

	b := &Board{
		Name:      cfg.Board,
		LED:       led,
		Button:    btn,
		Timer:     tick,
		Ints:      emu,
		ButtonIRQ: ButtonIRQ,
		Vectors:   vectors,
		Console:   os.Stdout,
		idle:      func(ctx context.Context) { emu.Wait(ctx) },
	}

	b.attach = func() error {
		opts := []gpiocdev.LineReqOption{
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithFallingEdge,
			gpiocdev.WithConsumer("blinky"),
			gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
				btn.edges.Add(1)
				emu.Pend(b.ButtonIRQ)
			}),
		}
		if cfg.Button.DebounceMS > 0 {
			opts = append(opts, gpiocdev.WithDebounce(time.Duration(cfg.Button.DebounceMS)*time.Millisecond))
		}
		line, err := gpiocdev.RequestLine(cfg.GPIO.Chip, cfg.GPIO.Button, opts...)
		if err != nil {
			return fmt.Errorf("request button line %d: %w", cfg.GPIO.Button, err)
		}
		btn.line = line
		return nil
	}

	b.close = func() error {
		var errs []error
		tick.stop()
		if btn.line != nil {
			if err := btn.line.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close button line: %w", err))
			}
		}
		led.Set(ColorOff)
		if err := leds.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED lines: %w", err))
		}
		return errors.Join(errs...)
	}
	return b, nil
}

type rgbLED struct {
	lines *gpiocdev.Lines
	fails atomic.Uint32
}

func (l *rgbLED) Set(c Color) {
	lv := c.Levels()
	if err := l.lines.SetValues(lv[:]); err != nil {
		// The driver contract is infallible; count and carry on.
		l.fails.Add(1)
	}
}

// lineButton: the kernel consumes the edge when it is read, so there is no
// pending flag left to clear.
type lineButton struct {
	line  *gpiocdev.Line
	edges atomic.Uint32
}

func (b *lineButton) ClearPending() {}

type tickerTimer struct {
	emu *irq.Emulator

	mu   sync.Mutex
	done chan struct{}
}

func (t *tickerTimer) Configure(hz uint32) error {
	t.stop()
	period := timex.PeriodFromHz(hz)
	done := make(chan struct{})
	t.mu.Lock()
	t.done = done
	t.mu.Unlock()

	go func() {
		tk := time.NewTicker(period)
		defer tk.Stop()
		for {
			select {
			case <-done:
				return
			case <-tk.C:
				t.emu.Pend(irq.SysTick)
			}
		}
	}()
	return nil
}

func (t *tickerTimer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
}
