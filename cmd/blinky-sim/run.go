package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"blinky-go/services/config"
	"blinky-go/services/sim"
	"blinky-go/services/trace"
)

func newRunCmd() *cobra.Command {
	var opts struct {
		config  string
		board   string
		ticks   int
		presses int
		trace   bool
		traceTk bool
	}
	cmd := &cobra.Command{
		Use:   "run [script...]",
		Short: "Run scripts, or press and tick a fixed number of times",
		Long: `Run executes simulator scripts ("-" reads stdin). Each line is one of:

  press [n]              press the button n times
  tick [n] | run <n>     advance the timer
  expect led <colour>    check the LED
  expect count <n>       check the flash count

Without scripts it presses --presses times then ticks --ticks times.
The LED transitions are printed at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.config, opts.board)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var simOpts []sim.Option
			if opts.trace {
				simOpts = append(simOpts, sim.WithObserver(trace.NewWriter(out, opts.traceTk)))
			}
			s, err := sim.New(cfg, simOpts...)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				s.Press(opts.presses)
				s.Tick(opts.ticks)
			}
			for _, name := range args {
				if err := runScript(s, name, cmd.InOrStdin()); err != nil {
					return err
				}
			}

			for _, tr := range s.Transitions() {
				fmt.Fprintf(out, "tick %d led %s\n", tr.Tick, tr.Color)
			}
			fmt.Fprintf(out, "ticks=%d presses=%d count=%d\n", s.Now(), s.Presses(), s.FlashCount())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "YAML file overlaid on the board defaults")
	f.StringVarP(&opts.board, "board", "b", "", "board defaults to start from (default from file, else sim)")
	f.IntVarP(&opts.ticks, "ticks", "n", 60, "ticks to run without a script")
	f.IntVarP(&opts.presses, "presses", "p", 0, "button presses before the first tick without a script")
	f.BoolVarP(&opts.trace, "trace", "t", false, "print every event the loop emits")
	f.BoolVar(&opts.traceTk, "trace-ticks", false, "include timer ticks in the trace")
	return cmd
}

func runScript(s *sim.Simulator, name string, stdin io.Reader) error {
	if name == "-" {
		return s.Run(stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := s.Run(f); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
