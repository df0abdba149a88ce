// Package mqtt streams vehicle telemetry through the prediction engine:
// samples arrive on a telemetry topic keyed by session id and driving advice
// is published back per session.
package mqtt

import (
	"encoding/json"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/serikch/evpredict/core/logger"
	"github.com/serikch/evpredict/core/model"
	"github.com/serikch/evpredict/core/predict"
)

// TelemetryMessage is the payload expected on the telemetry topic. The
// session id comes from the last topic segment.
type TelemetryMessage struct {
	VehicleType string `json:"vehicle_type"`
	model.SensorSample
}

// Connector bridges broker telemetry to the prediction engine.
type Connector struct {
	cfg    Config
	client Client
	engine *predict.Engine
	log    logger.Logger
}

// NewConnector creates a Connector around a connected client.
func NewConnector(cfg Config, client Client, engine *predict.Engine, log logger.Logger) *Connector {
	return &Connector{cfg: cfg, client: client, engine: engine, log: log}
}

// Start subscribes to the telemetry topic.
func (c *Connector) Start() error {
	return c.client.Subscribe(c.cfg.TelemetryTopic, c.cfg.QoS, c.handle)
}

// Close disconnects from the broker.
func (c *Connector) Close() { c.client.Close() }

func (c *Connector) handle(_ mqtt.Client, msg mqtt.Message) {
	var tm TelemetryMessage
	if err := json.Unmarshal(msg.Payload(), &tm); err != nil {
		c.log.Warnf("invalid telemetry payload on %s: %v", msg.Topic(), err)
		return
	}
	sessionID := sessionFromTopic(msg.Topic())

	sample := tm.SensorSample
	if sample.AmbientTemp == 0 {
		sample.AmbientTemp = 15
	}
	res := c.engine.Predict(predict.Request{
		VehicleType: tm.VehicleType,
		SessionID:   sessionID,
		Sample:      &sample,
	})

	payload, err := json.Marshal(res)
	if err != nil {
		c.log.Errorf("marshal advice: %v", err)
		return
	}
	topic := c.cfg.AdviceTopic + "/" + sessionID
	if err := c.client.Publish(topic, payload, c.cfg.QoS); err != nil {
		c.log.Errorf("publish advice to %s: %v", topic, err)
	}
}

func sessionFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	return parts[len(parts)-1]
}
