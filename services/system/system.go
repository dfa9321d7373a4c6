// Package system owns the device state shared between interrupt handlers and
// the foreground loop, and wires it together at boot.
package system

import (
	"context"

	"blinky-go/errcode"
	"blinky-go/event"
	"blinky-go/irq"
	"blinky-go/services/config"
	"blinky-go/services/coordinator"
	"blinky-go/services/dispatch"
	"blinky-go/services/flash"
	"blinky-go/services/hal"
	"blinky-go/x/critsec"
)

// Consumer names as reported to observers.
const (
	CoordinatorName = "coordinator"
	FlashName       = "flash"
)

type System struct {
	cfg   config.Config
	board *hal.Board

	guard   *critsec.Guard
	ch      *event.Channel
	vectors *irq.Table
	coord   *coordinator.Coordinator
	flash   *flash.Controller
	loop    *dispatch.Loop

	booted bool
}

type Option func(*settings)

type settings struct {
	obs dispatch.Observer
}

// WithObserver taps the foreground loop.
func WithObserver(o dispatch.Observer) Option {
	return func(s *settings) { s.obs = o }
}

// Params derives the coordinator parameters from cfg.
func Params(cfg config.Config) (coordinator.Params, error) {
	c, err := hal.ParseColor(cfg.Flash.Color)
	if err != nil {
		return coordinator.Params{}, &errcode.E{C: errcode.InvalidConfig, Op: "system.Params", Err: err}
	}
	return coordinator.Params{
		InitialCount: cfg.Flash.InitialCount,
		OnTime:       cfg.Flash.OnTicks,
		OffTime:      cfg.Flash.OffTicks,
		WaitTime:     cfg.Flash.PauseTicks,
		Color:        c,
	}, nil
}

// Open allocates the vector table, opens the board cfg names and builds the
// system on it.
func Open(cfg config.Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := hal.Open(cfg, irq.NewTable())
	if err != nil {
		return nil, err
	}
	s, err := New(cfg, b, opts...)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return s, nil
}

// New builds the system on an opened board. Nothing is enabled until Boot.
func New(cfg config.Config, b *hal.Board, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b == nil || b.Vectors == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "system.New", Msg: "board has no vector table"}
	}
	p, err := Params(cfg)
	if err != nil {
		return nil, err
	}
	var st settings
	for _, o := range opts {
		o(&st)
	}

	s := &System{cfg: cfg, board: b, vectors: b.Vectors}
	s.guard = critsec.New(b.Ints)
	s.ch = event.NewChannel(s.guard, cfg.ChannelOptions()...)
	s.coord = coordinator.New(b.LED, p)
	s.flash = flash.New()

	lopts := []dispatch.Option{
		dispatch.WithConsumer(CoordinatorName, s.coord),
		dispatch.WithConsumer(FlashName, s.flash),
		dispatch.WithIdle(b.Idler()),
	}
	if st.obs != nil {
		lopts = append(lopts, dispatch.WithObserver(st.obs))
	}
	s.loop = dispatch.New(s.ch, lopts...)
	return s, nil
}

// Boot brings the device up: the channel exists before any handler can
// submit, handlers are installed before their sources are attached, and the
// tick starts last.
func (s *System) Boot() error {
	if s.booted {
		return &errcode.E{C: errcode.InvalidParams, Op: "system.Boot", Msg: "already booted"}
	}
	s.ch.Initialize()

	if err := s.vectors.Set(irq.SysTick, irq.TickISR(s.ch)); err != nil {
		return err
	}
	if err := s.vectors.Set(s.board.ButtonIRQ, irq.ButtonISR(s.board.Button, s.ch)); err != nil {
		return err
	}
	if err := s.board.Attach(); err != nil {
		return &errcode.E{C: errcode.Error, Op: "system.Boot", Msg: "attach " + s.board.Name, Err: err}
	}
	s.board.Ints.Enable(s.board.ButtonIRQ)
	s.board.Ints.Enable(irq.SysTick)
	if err := s.board.Timer.Configure(s.cfg.TickHz); err != nil {
		return err
	}
	s.booted = true
	return nil
}

// Run enters the foreground loop. See dispatch.Loop.Run.
func (s *System) Run(ctx context.Context) { s.loop.Run(ctx) }

// Close stops the board's interrupt sources and releases its drivers.
func (s *System) Close() error {
	s.board.Ints.Disable(irq.SysTick)
	s.board.Ints.Disable(s.board.ButtonIRQ)
	return s.board.Close()
}

func (s *System) Config() config.Config                 { return s.cfg }
func (s *System) Board() *hal.Board                     { return s.board }
func (s *System) Guard() *critsec.Guard                 { return s.guard }
func (s *System) Channel() *event.Channel               { return s.ch }
func (s *System) Vectors() *irq.Table                   { return s.vectors }
func (s *System) Coordinator() *coordinator.Coordinator { return s.coord }
func (s *System) Flash() *flash.Controller              { return s.flash }
func (s *System) Loop() *dispatch.Loop                  { return s.loop }
