//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"blinky-go/errcode"
	"blinky-go/services/config"
	"blinky-go/services/dispatch"
	"blinky-go/services/system"
	"blinky-go/services/telemetry"
	"blinky-go/services/trace"
	"blinky-go/x/logx"
)

var (
	opts = struct {
		config string
		board  string
		pretty bool
	}{}

	rootCmd = &cobra.Command{
		Use:           "blinky",
		Short:         "Run the LED flasher on a Linux GPIO board",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx)
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&opts.config, "config", "c", "", "YAML file overlaid on the board defaults")
	rootCmd.Flags().StringVarP(&opts.board, "board", "b", "", "board defaults to start from (default from file, else "+hostBoard+")")
	rootCmd.Flags().BoolVar(&opts.pretty, "pretty", false, "human-readable logs")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log := logx.WithComponent("main")
		log.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig(opts.config, opts.board)
	if err != nil {
		return err
	}
	logx.Configure(logx.Config{Level: cfg.Log.Level, Pretty: opts.pretty})
	log := logx.WithComponent("main")

	var sink *telemetry.Sink
	if cfg.MQTT.Broker != "" {
		pub, err := telemetry.Dial(cfg.MQTT)
		if err != nil {
			return err
		}
		sink = telemetry.New(pub, cfg.MQTT.Topic, telemetry.WithLogger(logx.WithComponent("telemetry")))
		log.Info().Str("broker", cfg.MQTT.Broker).Str("topic", cfg.MQTT.Topic).Msg("telemetry enabled")
	}

	var obs []dispatch.Observer
	obs = append(obs, trace.NewLog(logx.WithComponent("trace"), cfg.Trace.Ticks))
	if sink != nil {
		obs = append(obs, sink)
	}
	s, err := system.Open(cfg, system.WithObserver(trace.Join(obs...)))
	if err != nil {
		if sink != nil {
			_ = sink.Close()
		}
		return err
	}
	if err := s.Boot(); err != nil {
		return errors.Join(err, s.Close(), closeSink(sink))
	}
	log.Info().Str("board", s.Board().Name).Uint32("tick_hz", cfg.TickHz).Str("order", s.Channel().Order().String()).Msg("running")

	s.Run(ctx)

	log.Info().Uint64("events", s.Loop().Steps()).Msg("stopping")
	if sink != nil {
		st := sink.Stats()
		log.Info().Uint64("sent", st.Sent).Uint64("dropped", st.Dropped).Uint64("failed", st.Failed).Msg("telemetry")
	}
	return errors.Join(s.Close(), closeSink(sink))
}

// hostBoard is the board run when neither the flag nor the file names one.
const hostBoard = "rpi"

func loadConfig(path, board string) (config.Config, error) {
	cfg, err := config.LoadOr(path, board, hostBoard)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Board == "sim" {
		return config.Config{}, &errcode.E{C: errcode.Unsupported, Op: "blinky", Msg: "the sim board has no timer; use blinky-sim"}
	}
	return cfg, nil
}

func closeSink(s *telemetry.Sink) error {
	if s == nil {
		return nil
	}
	return s.Close()
}
