// Package sim drives the complete firmware on an emulated board, one tick at
// a time, from Go or from a small line-oriented script.
package sim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"blinky-go/errcode"
	"blinky-go/irq"
	"blinky-go/services/config"
	"blinky-go/services/dispatch"
	"blinky-go/services/hal"
	"blinky-go/services/system"
)

// Transition is an LED change and the tick it was observed on.
type Transition struct {
	Tick  uint64
	Color hal.Color
}

type Simulator struct {
	sys   *system.System
	board *hal.Sim

	tick    uint64
	presses int
	led     hal.Color
	trans   []Transition
}

type Option func(*options)

type options struct {
	obs dispatch.Observer
}

// WithObserver taps the loop of the simulated device.
func WithObserver(obs dispatch.Observer) Option {
	return func(o *options) { o.obs = obs }
}

// New boots the firmware described by cfg on an emulated board. Pin, LED
// and bus settings in cfg are ignored.
func New(cfg config.Config, opts ...Option) (*Simulator, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	board := hal.NewSim(irq.NewTable())
	var sopts []system.Option
	if o.obs != nil {
		sopts = append(sopts, system.WithObserver(o.obs))
	}
	sys, err := system.New(cfg, board.Board, sopts...)
	if err != nil {
		return nil, err
	}
	if err := sys.Boot(); err != nil {
		return nil, err
	}
	return &Simulator{sys: sys, board: board}, nil
}

// Press presses the button n times, letting the loop settle after each.
func (s *Simulator) Press(n int) {
	for i := 0; i < n; i++ {
		s.board.Press()
		s.presses++
		s.settle()
	}
}

// Tick advances the timer n periods, letting the loop settle after each.
func (s *Simulator) Tick(n int) {
	for i := 0; i < n; i++ {
		s.board.Tick()
		s.tick++
		s.settle()
	}
}

func (s *Simulator) settle() {
	s.sys.Loop().Drain(0)
	if c := s.board.Lamp.Current(); c != s.led {
		s.led = c
		s.trans = append(s.trans, Transition{Tick: s.tick, Color: c})
	}
}

func (s *Simulator) Now() uint64            { return s.tick }
func (s *Simulator) Presses() int           { return s.presses }
func (s *Simulator) LED() hal.Color         { return s.led }
func (s *Simulator) FlashCount() uint32     { return s.sys.Coordinator().FlashCount() }
func (s *Simulator) System() *system.System { return s.sys }

func (s *Simulator) Transitions() []Transition {
	return append([]Transition(nil), s.trans...)
}

// Mismatch is a failed expect command.
type Mismatch struct {
	What string
	Want string
	Got  string
}

func (m *Mismatch) Error() string {
	return "expect " + m.What + ": want " + m.Want + ", got " + m.Got
}

// Exec runs one script line. Blank lines and # comments are accepted.
//
//	press [n]
//	tick [n]
//	run <n>
//	expect led <off|red|green|blue>
//	expect count <n>
func (s *Simulator) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "sim.Exec", Msg: "tokenise", Err: err}
	}
	if len(args) == 0 {
		return nil
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "press":
		n, err := optCount(cmd, rest)
		if err != nil {
			return err
		}
		s.Press(n)
	case "tick":
		n, err := optCount(cmd, rest)
		if err != nil {
			return err
		}
		s.Tick(n)
	case "run":
		if len(rest) != 1 {
			return usage(cmd, "run <ticks>")
		}
		n, err := optCount(cmd, rest)
		if err != nil {
			return err
		}
		s.Tick(n)
	case "expect":
		return s.expect(rest)
	default:
		return usage(cmd, "unknown command")
	}
	return nil
}

func (s *Simulator) expect(args []string) error {
	if len(args) != 2 {
		return usage("expect", "expect led <color> | expect count <n>")
	}
	switch args[0] {
	case "led":
		want, err := hal.ParseColor(args[1])
		if err != nil {
			return err
		}
		if s.led != want {
			return &Mismatch{What: "led", Want: want.String(), Got: s.led.String()}
		}
	case "count":
		want, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return usage("expect", "count must be a number")
		}
		if got := s.FlashCount(); uint64(got) != want {
			return &Mismatch{What: "count", Want: args[1], Got: strconv.FormatUint(uint64(got), 10)}
		}
	default:
		return usage("expect", "unknown subject "+strconv.Quote(args[0]))
	}
	return nil
}

// Run executes a script, stopping at the first failing line.
func (s *Simulator) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if err := s.Exec(line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

func optCount(cmd string, args []string) (int, error) {
	switch len(args) {
	case 0:
		return 1, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return 0, usage(cmd, "count must be a non-negative number")
		}
		return n, nil
	}
	return 0, usage(cmd, "too many arguments")
}

func usage(cmd, msg string) error {
	return &errcode.E{C: errcode.InvalidParams, Op: "sim." + cmd, Msg: msg}
}
