package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blinky-go/services/config"
)

func newConfigCmd() *cobra.Command {
	var opts struct {
		config string
		board  string
		list   bool
	}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.list {
				for _, b := range config.Boards() {
					fmt.Fprintln(out, b)
				}
				return nil
			}
			cfg, err := config.Load(opts.config, opts.board)
			if err != nil {
				return err
			}
			raw, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(raw)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "YAML file overlaid on the board defaults")
	f.StringVarP(&opts.board, "board", "b", "", "board defaults to start from")
	f.BoolVar(&opts.list, "list", false, "list the boards with embedded defaults")
	return cmd
}
