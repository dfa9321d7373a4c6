// services/system/system_test.go
package system

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"blinky-go/errcode"
	"blinky-go/event"
	"blinky-go/irq"
	"blinky-go/services/config"
	"blinky-go/services/hal"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type emitted struct {
	by string
	e  event.Event
}

type recorder struct {
	mu  sync.Mutex
	out []emitted
}

func (r *recorder) Taken(event.Event) {}

func (r *recorder) Emitted(by string, e event.Event) {
	r.mu.Lock()
	r.out = append(r.out, emitted{by, e})
	r.mu.Unlock()
}

// take returns and forgets what was emitted so far.
func (r *recorder) take() []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.out
	r.out = nil
	return out
}

func (r *recorder) saw(k event.Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.out {
		if o.e.Kind == k {
			return true
		}
	}
	return false
}

func simConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, ok := config.Lookup("sim")
	require.True(t, ok)
	return cfg
}

func bootSim(t *testing.T, cfg config.Config) (*System, *hal.Sim, *recorder) {
	t.Helper()
	sim := hal.NewSim(irq.NewTable())
	rec := &recorder{}
	s, err := New(cfg, sim.Board, WithObserver(rec))
	require.NoError(t, err)
	require.NoError(t, s.Boot())
	return s, sim, rec
}

func kinds(es []emitted) []event.Kind {
	var ks []event.Kind
	for _, e := range es {
		ks = append(ks, e.e.Kind)
	}
	return ks
}

func TestBootWiresInterrupts(t *testing.T) {
	s, sim, _ := bootSim(t, simConfig(t))

	assert.True(t, s.Channel().Initialized())
	assert.True(t, s.Vectors().Installed(irq.SysTick))
	assert.True(t, s.Vectors().Installed(hal.ButtonIRQ))
	assert.True(t, sim.Emu.Enabled(irq.SysTick))
	assert.True(t, sim.Emu.Enabled(hal.ButtonIRQ))
	assert.Equal(t, uint32(10), sim.Clock.Hz())
	assert.False(t, s.Guard().Held())

	err := s.Boot()
	require.Error(t, err)
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}

func TestSourcesSilentBeforeBoot(t *testing.T) {
	sim := hal.NewSim(irq.NewTable())
	s, err := New(simConfig(t), sim.Board)
	require.NoError(t, err)

	assert.Zero(t, sim.Press())
	assert.Zero(t, sim.Tick())
	assert.False(t, s.Channel().Initialized())
}

func TestButtonAcknowledged(t *testing.T) {
	s, sim, _ := bootSim(t, simConfig(t))
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, sim.Press())
	}
	assert.Equal(t, uint32(3), sim.Btn.Clears())
	assert.Equal(t, 3, s.Channel().Len())
	assert.Equal(t, 3, s.Loop().Drain(0))
	assert.Equal(t, uint32(4), s.Coordinator().FlashCount())
}

func TestTopLevelScenario(t *testing.T) {
	s, sim, rec := bootSim(t, simConfig(t))
	loop := s.Loop()

	sim.Press()
	loop.Drain(0)
	sim.Press()
	loop.Drain(0)
	require.Empty(t, rec.take())

	sim.Tick()
	loop.Drain(0)
	out := rec.take()
	require.NotEmpty(t, out)
	assert.Equal(t, emitted{CoordinatorName, event.FlashLedRequest(3, 4, 3)}, out[0])

	// Run the sequence to completion.
	done := false
	for i := 0; i < 100 && !done; i++ {
		sim.Tick()
		loop.Drain(0)
		for _, o := range rec.take() {
			if o.e.Kind == event.KindFlashSequenceDone {
				assert.Equal(t, FlashName, o.by)
				done = true
			}
		}
	}
	require.True(t, done, "sequence never finished")
	assert.Equal(t,
		[]hal.Color{hal.ColorRed, hal.ColorOff, hal.ColorRed, hal.ColorOff, hal.ColorRed, hal.ColorOff},
		sim.Lamp.History())

	silent := 0
	for {
		sim.Tick()
		loop.Drain(0)
		out := rec.take()
		if len(out) > 0 {
			assert.Equal(t, []event.Kind{event.KindFlashLedRequest}, kinds(out[:1]))
			assert.Equal(t, uint32(3), out[0].e.Count)
			break
		}
		silent++
		require.Less(t, silent, 100)
	}
	assert.Equal(t, 20, silent)
	assert.Zero(t, s.Channel().Len())
}

func TestFIFOConfigRunsSameSequence(t *testing.T) {
	cfg := simConfig(t)
	cfg.Channel.Order = "fifo"
	s, sim, rec := bootSim(t, cfg)

	sim.Tick()
	s.Loop().Drain(0)
	for i := 0; i < 12; i++ {
		sim.Tick()
		s.Loop().Drain(0)
	}
	got := kinds(rec.take())
	assert.Equal(t, []event.Kind{
		event.KindFlashLedRequest,
		event.KindLedTurnOn,
		event.KindLedTurnOff,
		event.KindFlashSequenceDone,
	}, got)
	assert.Equal(t, []hal.Color{hal.ColorRed, hal.ColorOff}, sim.Lamp.History())
}

func TestInterruptPathDoesNotAllocate(t *testing.T) {
	cfg, ok := config.Lookup("pico")
	require.True(t, ok)
	s, sim, _ := bootSim(t, cfg)

	// Each AllocsPerRun(1) call raises twice; 30 rounds stay under the limit
	// of 64 while crossing every point where an unsized slice would grow.
	for i := 0; i < 30; i++ {
		allocs := testing.AllocsPerRun(1, func() {
			if i%2 == 0 {
				sim.Tick()
			} else {
				sim.Press()
			}
		})
		require.Zero(t, allocs, "round %d, queued %d", i, s.Channel().Len())
	}
	assert.Equal(t, 60, s.Channel().Len())
}

func TestParamsFromConfig(t *testing.T) {
	cfg := simConfig(t)
	cfg.Flash.Color = "green"
	p, err := Params(cfg)
	require.NoError(t, err)
	assert.Equal(t, hal.ColorGreen, p.Color)
	assert.Equal(t, uint32(20), p.WaitTime)

	cfg.Flash.Color = "plaid"
	_, err = Params(cfg)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))
}

func TestNewRejects(t *testing.T) {
	cfg := simConfig(t)
	cfg.TickHz = 0
	_, err := New(cfg, hal.NewSim(irq.NewTable()).Board)
	assert.Equal(t, errcode.InvalidConfig, errcode.Of(err))

	_, err = New(simConfig(t), &hal.Board{})
	assert.Equal(t, errcode.InvalidParams, errcode.Of(err))
}

func TestOpenSimBoard(t *testing.T) {
	s, err := Open(simConfig(t))
	require.NoError(t, err)
	require.NoError(t, s.Boot())
	assert.Equal(t, "sim", s.Board().Name)
	assert.NoError(t, s.Close())
}

func TestRunServicesPendedInterrupts(t *testing.T) {
	sim := hal.NewSim(irq.NewTable())
	rec := &recorder{}
	s, err := New(simConfig(t), sim.Board, WithObserver(rec))
	require.NoError(t, err)
	require.NoError(t, s.Boot())

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		s.Run(ctx)
	}()

	// Pended from this goroutine; the handlers run on the loop's.
	require.Eventually(t, func() bool {
		sim.Emu.Pend(irq.SysTick)
		return rec.saw(event.KindLedTurnOn)
	}, 2*time.Second, time.Millisecond)

	cancel()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
