//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"

	"blinky-go/errcode"
	"blinky-go/fault"
	"blinky-go/irq"
	"blinky-go/services/config"
	"blinky-go/services/hal"
	"blinky-go/services/heartbeat"
	"blinky-go/services/system"
	"blinky-go/services/trace"
)

// board selects the embedded defaults: -ldflags "-X main.board=rp2040-zero".
var board = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot", board)

	cfg, ok := config.Lookup(board)
	if !ok {
		fault.HaltCode(errcode.InvalidConfig, "main: unknown board "+board)
	}
	b, err := hal.Open(cfg, irq.NewTable())
	if err != nil {
		fault.Halt(err)
	}
	var s *system.System
	hb := heartbeat.New(b.Console, cfg.Trace.Heartbeat, queueLen(func() int { return s.Channel().Len() }))
	s, err = system.New(cfg, b, system.WithObserver(trace.Join(trace.NewWriter(b.Console, cfg.Trace.Ticks), hb)))
	if err != nil {
		fault.Halt(err)
	}
	if err := s.Boot(); err != nil {
		fault.Halt(err)
	}
	println("[main] running at", cfg.TickHz, "Hz")
	s.Run(context.Background())
}

type queueLen func() int

func (f queueLen) Len() int { return f() }
