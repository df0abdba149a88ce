package mqtt

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Config connects the telemetry connector to a broker.
type Config struct {
	Enabled        bool   `json:"enabled"`
	Broker         string `json:"broker"`
	ClientID       string `json:"client_id"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	TelemetryTopic string `json:"telemetry_topic"`
	AdviceTopic    string `json:"advice_topic"`
	QoS            byte   `json:"qos"`
}

// SetDefaults applies sane defaults. Client ids get a random suffix so
// multiple instances can share a broker.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "evpredict"
	}
	c.ClientID = fmt.Sprintf("%s-%s", c.ClientID, uuid.NewString()[:8])
	if c.TelemetryTopic == "" {
		c.TelemetryTopic = "ev/telemetry/+"
	}
	if c.AdviceTopic == "" {
		c.AdviceTopic = "ev/advice"
	}
}

// Client is the minimal broker surface the connector needs.
type Client interface {
	Publish(topic string, payload []byte, qos byte) error
	Subscribe(topic string, qos byte, cb mqtt.MessageHandler) error
	Close()
}

// PahoClient wraps the eclipse paho client.
type PahoClient struct {
	client mqtt.Client
}

// NewPahoClient connects to the broker.
func NewPahoClient(cfg Config) (*PahoClient, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoClient{client: client}, nil
}

func (mc *PahoClient) Publish(topic string, payload []byte, qos byte) error {
	token := mc.client.Publish(topic, qos, false, payload)
	token.Wait()
	return token.Error()
}

func (mc *PahoClient) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) error {
	token := mc.client.Subscribe(topic, qos, cb)
	token.Wait()
	return token.Error()
}

func (mc *PahoClient) Close() {
	if mc.client.IsConnected() {
		mc.client.Disconnect(250)
	}
}
