package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/serikch/evpredict/core/model"
	"github.com/serikch/evpredict/core/physics"
	"github.com/serikch/evpredict/infra/mqtt"
)

// drive phases of the synthetic cycle.
const (
	phaseAccelerate = iota
	phaseCruise
	phaseBrake
)

// SimulatedVehicle publishes synthetic telemetry and listens for advice.
type SimulatedVehicle struct {
	ID          string
	Broker      string
	VehicleType string
	Verbose     bool

	client paho.Client
	rng    *rand.Rand

	battery   Battery
	latitude  float64
	longitude float64
	speedKmh  float64
	phase     int
	phaseLeft int
}

// NewSimulatedVehicle creates a vehicle at a randomized start position.
func NewSimulatedVehicle(id, broker, vehicleType string, seed int64) *SimulatedVehicle {
	rng := rand.New(rand.NewSource(seed))
	spec := model.SpecFor(vehicleType)
	return &SimulatedVehicle{
		ID:          id,
		Broker:      broker,
		VehicleType: vehicleType,
		rng:         rng,
		battery:     Battery{CapacityKWh: spec.BatteryKWh, Soc: 0.5 + rng.Float64()*0.4},
		latitude:    45.0 + rng.Float64()*0.5,
		longitude:   5.0 + rng.Float64()*0.5,
		phase:       phaseAccelerate,
		phaseLeft:   5 + rng.Intn(10),
	}
}

// Run connects to the broker and publishes telemetry until ctx is done.
func (v *SimulatedVehicle) Run(ctx context.Context, interval time.Duration) error {
	cli, err := newMQTTClient(v.Broker, "sim-"+v.ID)
	if err != nil {
		return err
	}
	v.client = cli
	defer cli.Disconnect(250)

	if v.Verbose {
		topic := fmt.Sprintf("ev/advice/%s", v.ID)
		if token := cli.Subscribe(topic, 0, v.onAdvice); token.Wait() && token.Error() != nil {
			return token.Error()
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			v.step(interval)
			if err := v.publish(); err != nil {
				log.Printf("%s: publish: %v", v.ID, err)
			}
		}
	}
}

// step advances the drive cycle: accelerate to a cruise speed, hold, brake,
// repeat. Position creeps north with distance travelled.
func (v *SimulatedVehicle) step(dt time.Duration) {
	seconds := dt.Seconds()
	var accel float64
	switch v.phase {
	case phaseAccelerate:
		accel = 0.8 + v.rng.Float64()*1.2
	case phaseCruise:
		accel = (v.rng.Float64() - 0.5) * 0.4
	case phaseBrake:
		accel = -1.0 - v.rng.Float64()*1.5
	}
	v.speedKmh += accel * seconds * 3.6
	if v.speedKmh < 0 {
		v.speedKmh = 0
	}
	if v.speedKmh > 130 {
		v.speedKmh = 130
	}

	v.phaseLeft--
	if v.phaseLeft <= 0 {
		v.phase = (v.phase + 1) % 3
		v.phaseLeft = 5 + v.rng.Intn(15)
	}

	// degrees latitude per meter travelled
	meters := v.speedKmh / 3.6 * seconds
	v.latitude += meters / 111195.0

	power := physics.PowerKW(v.speedKmh, accel, 0, 15, v.VehicleType)
	v.battery.Apply(power, seconds/3600.0)
}

func (v *SimulatedVehicle) publish() error {
	msg := mqtt.TelemetryMessage{
		VehicleType: v.VehicleType,
		SensorSample: model.SensorSample{
			SpeedKmh:    v.speedKmh,
			Latitude:    v.latitude,
			Longitude:   v.longitude,
			Timestamp:   float64(time.Now().Unix()),
			SoC:         v.battery.SocPercent(),
			AmbientTemp: 15,
		},
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("ev/telemetry/%s", v.ID)
	token := v.client.Publish(topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

func (v *SimulatedVehicle) onAdvice(_ paho.Client, msg paho.Message) {
	var res model.PredictionResult
	if err := json.Unmarshal(msg.Payload(), &res); err != nil {
		return
	}
	log.Printf("%s: %.1f kW (%s) %s", v.ID, res.BatteryPowerKW, res.ModelUsed, res.Recommendation)
}
