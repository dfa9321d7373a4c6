package config

import (
	"strconv"

	"blinky-go/errcode"
	"blinky-go/event"
)

// Config is the complete device configuration. Times under Flash are in
// ticks of the TickHz timer.
type Config struct {
	Board   string        `yaml:"board"`
	TickHz  uint32        `yaml:"tick_hz"`
	Flash   FlashConfig   `yaml:"flash"`
	Channel ChannelConfig `yaml:"channel"`
	Button  ButtonConfig  `yaml:"button"`
	LED     LEDConfig     `yaml:"led"`
	GPIO    GPIOConfig    `yaml:"gpio"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Log     LogConfig     `yaml:"log"`
	Trace   TraceConfig   `yaml:"trace"`
}

type FlashConfig struct {
	InitialCount uint32 `yaml:"initial_count"`
	OnTicks      uint32 `yaml:"on_ticks"`
	OffTicks     uint32 `yaml:"off_ticks"`
	PauseTicks   uint32 `yaml:"pause_ticks"`
	Color        string `yaml:"color"` // red | green | blue
}

type ChannelConfig struct {
	Order    string `yaml:"order"`    // lifo | fifo
	Limit    int    `yaml:"limit"`    // 0 = unbounded
	Capacity int    `yaml:"capacity"` // initial backing size
}

type ButtonConfig struct {
	Pin        int `yaml:"pin"` // MCU GPIO number
	DebounceMS int `yaml:"debounce_ms"`
}

type LEDConfig struct {
	Kind string `yaml:"kind"` // gpio | ws2812
	Pin  int    `yaml:"pin"`
}

// GPIOConfig addresses lines on a Linux GPIO character device.
type GPIOConfig struct {
	Chip   string `yaml:"chip"`
	Button int    `yaml:"button"`
	Red    int    `yaml:"red"`
	Green  int    `yaml:"green"`
	Blue   int    `yaml:"blue"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"` // empty disables telemetry
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TraceConfig struct {
	Ticks     bool   `yaml:"ticks"`     // include TimeTick events in traces
	Heartbeat uint32 `yaml:"heartbeat"` // ticks between liveness lines; 0 = off
}

const (
	LEDKindGPIO   = "gpio"
	LEDKindWS2812 = "ws2812"
)

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	bad := func(field, msg string) error {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.Validate", Msg: field + ": " + msg}
	}
	if c.TickHz == 0 || c.TickHz > 1000 {
		return bad("tick_hz", "must be in 1..1000, got "+strconv.FormatUint(uint64(c.TickHz), 10))
	}
	switch c.Flash.Color {
	case "red", "green", "blue":
	default:
		return bad("flash.color", "unknown colour "+strconv.Quote(c.Flash.Color))
	}
	if _, err := event.ParseOrder(c.Channel.Order); err != nil {
		return bad("channel.order", "must be lifo or fifo")
	}
	if c.Channel.Limit < 0 || c.Channel.Capacity < 0 {
		return bad("channel", "limit and capacity must not be negative")
	}
	if c.Button.DebounceMS < 0 {
		return bad("button.debounce_ms", "must not be negative")
	}
	switch c.LED.Kind {
	case LEDKindGPIO, LEDKindWS2812:
	default:
		return bad("led.kind", "must be gpio or ws2812")
	}
	if c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return bad("mqtt.topic", "required when a broker is set")
	}
	return nil
}

// ChannelOptions translates the channel section into event.Channel options.
func (c Config) ChannelOptions() []event.Option {
	order, _ := event.ParseOrder(c.Channel.Order)
	return []event.Option{
		event.WithOrder(order),
		event.WithLimit(c.Channel.Limit),
		event.WithCapacity(c.Channel.Capacity),
	}
}
