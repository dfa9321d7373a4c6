//go:build !rp2040 && !rp2350

package telemetry

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"blinky-go/services/config"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// MQTT publishes to a broker at QoS 0, not retained.
type MQTT struct {
	client paho.Client
}

// Dial connects to the broker in cfg.
func Dial(cfg config.MQTTConfig) (*MQTT, error) {
	id := cfg.ClientID
	if id == "" {
		id = "blinky"
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(id).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}
	return &MQTT{client: client}, nil
}

func (m *MQTT) Publish(topic string, payload []byte) error {
	token := m.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (m *MQTT) IsConnected() bool { return m.client.IsConnected() }

func (m *MQTT) Close() error {
	m.client.Disconnect(1000)
	return nil
}
