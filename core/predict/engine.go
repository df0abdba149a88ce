// Package predict orchestrates a prediction request: trained model first,
// physics fallback, then derived efficiency and a recommendation. A request
// never fails because the model is unavailable.
package predict

import (
	"math"
	"time"

	"github.com/serikch/evpredict/core/features"
	"github.com/serikch/evpredict/core/logger"
	coremetrics "github.com/serikch/evpredict/core/metrics"
	"github.com/serikch/evpredict/core/model"
	"github.com/serikch/evpredict/core/physics"
	"github.com/serikch/evpredict/core/recommend"
	"github.com/serikch/evpredict/core/session"
	"github.com/serikch/evpredict/internal/eventbus"
)

// Confidence is a static tag of which path produced the number, not a
// statistical measure.
const (
	ConfidenceML      = 0.92
	ConfidencePhysics = 0.75
)

// ModelSource is the trained-model collaborator. Predict reports false when
// no model is available or inference failed for this request.
type ModelSource interface {
	Predict(featureMap map[string]any) (float64, bool)
}

// Request is one prediction call. Exactly one of Features (pre-engineered
// mode) or Sample (raw sensor mode) is set; when both are present the
// engineered features win.
type Request struct {
	VehicleType string
	SessionID   string
	Features    map[string]any
	Sample      *model.SensorSample
}

// Event is published on the bus for every served prediction.
type Event struct {
	VehicleType string
	SessionID   string
	Result      model.PredictionResult
	Timestamp   time.Time
}

// Engine composes the model source, physics fallback, session derivation and
// recommendation ladder.
type Engine struct {
	source   ModelSource
	sessions *session.Store
	rec      recommend.Engine
	sink     coremetrics.PredictionSink
	bus      *eventbus.Bus[Event]
	log      logger.Logger
}

// New creates an Engine. source and bus may be nil; a nil sink is replaced
// with a NopSink.
func New(source ModelSource, sessions *session.Store, rec recommend.Engine,
	sink coremetrics.PredictionSink, bus *eventbus.Bus[Event], log logger.Logger) *Engine {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Engine{source: source, sessions: sessions, rec: rec, sink: sink, bus: bus, log: log}
}

// Predict runs the TRY_ML -> PHYSICS_FALLBACK state machine and always
// returns a structured result.
func (e *Engine) Predict(req Request) model.PredictionResult {
	start := time.Now()
	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = model.DefaultVehicleType
	}

	var (
		featMap map[string]any
		speed   float64
		accel   float64
		slope   float64
		temp    float64
		soc     float64
	)
	if req.Features != nil {
		featMap = req.Features
		speed = features.Value(featMap, "speed_kmh", 0)
		accel = features.Value(featMap, "acceleration", 0)
		slope = features.Value(featMap, "slope", 0)
		temp = features.Value(featMap, "VCFRONT_tempAmbient", 15)
		soc = features.Value(featMap, "SOCave292", 50)
	} else if req.Sample != nil {
		k, snap := e.sessions.Observe(req.SessionID, *req.Sample)
		featMap = features.ToAny(features.Engineer(*req.Sample, k, snap))
		speed = req.Sample.SpeedKmh
		accel = k.AccelerationMps2
		slope = k.SlopePercent
		temp = req.Sample.AmbientTemp
		soc = req.Sample.SoC
	} else {
		featMap = map[string]any{}
		temp = 15
		soc = 50
	}

	powerKW, confidence, modelUsed := e.predictPower(featMap, speed, accel, slope, temp, vehicleType)

	efficiency := 0.0
	if speed > 1 {
		efficiency = powerKW / speed * 100
	}

	ctx := recommend.Context{SpeedKmh: speed, SlopePercent: slope, AccelerationMps2: accel, SoC: soc}
	advice := e.rec.Recommend(powerKW, ctx)

	res := model.PredictionResult{
		BatteryPowerKW:   round2(powerKW),
		EfficiencyKWh100: round2(efficiency),
		Confidence:       confidence,
		OptimalSpeedKmh:  e.rec.OptimalSpeed(ctx),
		Recommendation:   advice.Message,
		Severity:         advice.Severity,
		ModelUsed:        modelUsed,
		SpeedKmh:         speed,
		AccelerationMps2: accel,
		SlopePercent:     slope,
	}

	if err := e.sink.RecordPrediction(coremetrics.PredictionRecord{
		VehicleType: vehicleType,
		ModelUsed:   modelUsed,
		Severity:    string(advice.Severity),
		PowerKW:     res.BatteryPowerKW,
		SpeedKmh:    speed,
		Confidence:  confidence,
		Duration:    time.Since(start),
		Timestamp:   start,
	}); err != nil {
		e.log.Warnf("record prediction: %v", err)
	}
	if e.bus != nil {
		e.bus.Publish(Event{VehicleType: vehicleType, SessionID: req.SessionID, Result: res, Timestamp: start})
	}
	return res
}

// predictPower tries the trained model once, then falls back to physics
// unconditionally and synchronously.
func (e *Engine) predictPower(featMap map[string]any, speed, accel, slope, temp float64, vehicleType string) (float64, float64, string) {
	if e.source != nil {
		if p, ok := e.source.Predict(featMap); ok {
			return p, ConfidenceML, model.ModelML
		}
		e.log.Debugf("trained model unavailable, falling back to physics")
	}
	return physics.PowerKW(speed, accel, slope, temp, vehicleType), ConfidencePhysics, model.ModelPhysics
}

// ClearSession removes the session state for the id. Idempotent.
func (e *Engine) ClearSession(id string) {
	e.sessions.Delete(id)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
