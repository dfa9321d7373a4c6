//go:build rp2040 || rp2350

package hal

import (
	"device/arm"
	"image/color"
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ws2812"

	"blinky-go/errcode"
	"blinky-go/irq"
	"blinky-go/services/config"
	"blinky-go/x/critsec"
	"blinky-go/x/timex"
)

// sysTickVectors is read by the exported SysTick handler, which cannot take
// arguments. Written once by Timer.Configure before the tick is armed.
var sysTickVectors *irq.Table

//export SysTick_Handler
func sysTickHandler() {
	if t := sysTickVectors; t != nil {
		t.Dispatch(irq.SysTick)
	}
}

func openPlatform(cfg config.Config, vectors *irq.Table) (*Board, error) {
	led, err := openLED(cfg.LED)
	if err != nil {
		return nil, err
	}
	led.Set(ColorOff)

	btnPin := machine.Pin(cfg.Button.Pin)
	btnPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	console := uartx.UART0
	_ = console.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	b := &Board{
		Name:      cfg.Board,
		LED:       led,
		Button:    rp2Button{},
		Timer:     &sysTick{vectors: vectors},
		Ints:      &nvic{},
		ButtonIRQ: ButtonIRQ,
		Vectors:   vectors,
		Console:   console,
	}

	debounce := time.Duration(cfg.Button.DebounceMS) * time.Millisecond
	b.attach = func() error {
		var last time.Time
		return btnPin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
			now := time.Now()
			if !last.IsZero() && now.Sub(last) < debounce {
				return
			}
			last = now
			vectors.Dispatch(b.ButtonIRQ)
		})
	}
	return b, nil
}

func openLED(c config.LEDConfig) (LED, error) {
	pin := machine.Pin(c.Pin)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	switch c.Kind {
	case config.LEDKindWS2812:
		return &pixelLED{dev: ws2812.New(pin)}, nil
	case config.LEDKindGPIO:
		return pinLED{pin: pin}, nil
	}
	return nil, &errcode.E{C: errcode.InvalidConfig, Op: "hal.openLED", Msg: c.Kind}
}

// pinLED is a single-colour LED: any colour lights it.
type pinLED struct{ pin machine.Pin }

func (l pinLED) Set(c Color) { l.pin.Set(c != ColorOff) }

type pixelLED struct {
	dev ws2812.Device
	buf [1]color.RGBA
}

func (l *pixelLED) Set(c Color) {
	l.buf[0] = c.RGBA()
	_ = l.dev.WriteColors(l.buf[:])
}

// rp2Button: the machine package acknowledges the bank interrupt before the
// pin callback runs, so nothing is left pending here.
type rp2Button struct{}

func (rp2Button) ClearPending() {}

type sysTick struct {
	vectors *irq.Table
}

func (t *sysTick) Configure(hz uint32) error {
	reload, ok := timex.SysTickReload(machine.CPUFrequency(), hz)
	if !ok {
		return &errcode.E{C: errcode.InvalidParams, Op: "hal.sysTick.Configure", Msg: "tick rate out of range"}
	}
	sysTickVectors = t.vectors
	return arm.SetupSystemTimer(reload)
}

// nvic gates external lines; masking is PRIMASK through critsec.IRQMasker.
type nvic struct {
	critsec.IRQMasker
}

func (n *nvic) Enable(id irq.ID) {
	if id.IsExternal() {
		arm.EnableIRQ(uint32(id.Line()))
	}
}

func (n *nvic) Disable(id irq.ID) {
	switch {
	case id == irq.SysTick:
		_ = arm.SetupSystemTimer(0)
	case id.IsExternal():
		arm.DisableIRQ(uint32(id.Line()))
	}
}
