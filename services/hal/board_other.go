//go:build !rp2040 && !rp2350 && (!linux || baremetal)

package hal

import (
	"blinky-go/errcode"
	"blinky-go/irq"
	"blinky-go/services/config"
)

func openPlatform(cfg config.Config, _ *irq.Table) (*Board, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "hal.Open", Msg: "board " + cfg.Board + " needs linux or an RP2 target"}
}
