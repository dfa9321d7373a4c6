package config

import "sort"

// -----------------------------------------------------------------------------
// Embedded configuration
//
// One entry per supported board. Key: board name as passed to Lookup.
// All flash timings assume the 10 Hz default tick.
// -----------------------------------------------------------------------------

func base() Config {
	return Config{
		TickHz: 10,
		Flash: FlashConfig{
			InitialCount: 1,
			OnTicks:      4,
			OffTicks:     3,
			PauseTicks:   20,
			Color:        "red",
		},
		Channel: ChannelConfig{Order: "lifo", Limit: 64, Capacity: 8},
		Button:  ButtonConfig{Pin: 15, DebounceMS: 20},
		LED:     LEDConfig{Kind: LEDKindGPIO, Pin: 25},
		GPIO:    GPIOConfig{Chip: "gpiochip0", Button: 17, Red: 22, Green: 27, Blue: 23},
		MQTT:    MQTTConfig{Topic: "blinky", ClientID: "blinky"},
		Log:     LogConfig{Level: "info"},
		Trace:   TraceConfig{Heartbeat: 100},
	}
}

var embeddedConfigs = map[string]func() Config{
	// Raspberry Pi Pico: on-board LED on GP25, button to ground on GP15.
	"pico": func() Config {
		c := base()
		c.Board = "pico"
		return c
	},
	// RP2040-Zero style boards: WS2812 pixel on GP16, BOOT-adjacent button on GP15.
	"rp2040-zero": func() Config {
		c := base()
		c.Board = "rp2040-zero"
		c.LED = LEDConfig{Kind: LEDKindWS2812, Pin: 16}
		c.Flash.Color = "blue"
		return c
	},
	// Raspberry Pi running Linux, RGB LED and button on the 40-pin header.
	"rpi": func() Config {
		c := base()
		c.Board = "rpi"
		return c
	},
	// Host simulator.
	"sim": func() Config {
		c := base()
		c.Board = "sim"
		c.Button.DebounceMS = 0
		return c
	},
}

// EmbeddedConfigLookup allows overriding how board defaults are resolved.
var EmbeddedConfigLookup = func(board string) (Config, bool) {
	f, ok := embeddedConfigs[board]
	if !ok {
		return Config{}, false
	}
	return f(), true
}

// Lookup returns the embedded defaults for board.
func Lookup(board string) (Config, bool) { return EmbeddedConfigLookup(board) }

// Boards lists the boards with embedded defaults, sorted.
func Boards() []string {
	out := make([]string, 0, len(embeddedConfigs))
	for k := range embeddedConfigs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
