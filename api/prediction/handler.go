// Package prediction exposes the prediction engine over HTTP.
package prediction

import (
	"encoding/json"
	"net/http"

	"github.com/serikch/evpredict/core/features"
	"github.com/serikch/evpredict/core/logger"
	"github.com/serikch/evpredict/core/model"
	"github.com/serikch/evpredict/core/predict"
	"github.com/serikch/evpredict/infra/artifact"
)

// Request is the POST /api/predict body. Exactly one of Features or
// CurrentData must be present.
type Request struct {
	VehicleType string          `json:"vehicle_type"`
	Features    map[string]any  `json:"features,omitempty"`
	CurrentData *rawSensorInput `json:"current_data,omitempty"`
}

// rawSensorInput mirrors model.SensorSample but keeps optional fields
// pointer-typed so absence is distinguishable from zero during validation.
type rawSensorInput struct {
	SpeedKmh    *float64 `json:"speed_kmh"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Elevation   *float64 `json:"elevation"`
	Timestamp   *float64 `json:"timestamp"`
	SoC         *float64 `json:"soc"`
	AmbientTemp *float64 `json:"ambient_temp"`
}

// Response is the prediction result plus request echo fields.
type Response struct {
	model.PredictionResult
	SessionID    string             `json:"session_id"`
	FeaturesUsed map[string]float64 `json:"features_used"`
}

type errorResponse struct {
	Detail []string `json:"detail"`
}

// DefaultSessionID is used when the caller does not name a session.
const DefaultSessionID = "default"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewPredictHandler returns the POST /api/predict handler. Out-of-range
// inputs are rejected with 422 before they reach the engine; the engine
// itself trusts pre-validated input.
func NewPredictHandler(engine *predict.Engine, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: []string{"invalid JSON body: " + err.Error()}})
			return
		}
		if problems := validate(req); len(problems) > 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: problems})
			return
		}

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			sessionID = DefaultSessionID
		}

		preq := predict.Request{
			VehicleType: req.VehicleType,
			SessionID:   sessionID,
			Features:    req.Features,
		}
		if req.Features == nil {
			sample := req.CurrentData.toSample()
			preq.Sample = &sample
		}
		res := engine.Predict(preq)

		log.Debugw("prediction served", map[string]any{
			"session_id": sessionID,
			"model_used": res.ModelUsed,
			"power_kw":   res.BatteryPowerKW,
		})
		writeJSON(w, http.StatusOK, Response{
			PredictionResult: res,
			SessionID:        sessionID,
			FeaturesUsed: map[string]float64{
				"speed_kmh":    res.SpeedKmh,
				"acceleration": res.AccelerationMps2,
				"slope":        res.SlopePercent,
			},
		})
	})
}

func (in *rawSensorInput) toSample() model.SensorSample {
	deref := func(p *float64, def float64) float64 {
		if p == nil {
			return def
		}
		return *p
	}
	return model.SensorSample{
		SpeedKmh:    deref(in.SpeedKmh, 0),
		Latitude:    deref(in.Latitude, 0),
		Longitude:   deref(in.Longitude, 0),
		Elevation:   in.Elevation,
		Timestamp:   deref(in.Timestamp, 0),
		SoC:         deref(in.SoC, 0),
		AmbientTemp: deref(in.AmbientTemp, 15),
	}
}

func validate(req Request) []string {
	var problems []string
	if req.Features == nil && req.CurrentData == nil {
		return []string{"either features or current_data is required"}
	}
	inRange := func(name string, v, lo, hi float64) {
		if v < lo || v > hi {
			problems = append(problems, name+" out of range")
		}
	}
	if req.Features != nil {
		inRange("speed_kmh", features.Value(req.Features, "speed_kmh", 0), 0, 250)
		inRange("SOCave292", features.Value(req.Features, "SOCave292", 50), 0, 100)
		for _, flag := range []string{"is_accelerating", "is_braking", "is_coasting"} {
			v := features.Value(req.Features, flag, 0)
			if v != 0 && v != 1 {
				problems = append(problems, flag+" must be 0 or 1")
			}
		}
		return problems
	}
	cd := req.CurrentData
	if cd.SpeedKmh == nil {
		problems = append(problems, "speed_kmh is required")
	} else {
		inRange("speed_kmh", *cd.SpeedKmh, 0, 250)
	}
	if cd.Timestamp == nil || *cd.Timestamp <= 0 {
		problems = append(problems, "timestamp is required")
	}
	if cd.Latitude != nil {
		inRange("latitude", *cd.Latitude, -90, 90)
	}
	if cd.Longitude != nil {
		inRange("longitude", *cd.Longitude, -180, 180)
	}
	if cd.SoC != nil {
		inRange("soc", *cd.SoC, 0, 100)
	}
	return problems
}

// NewSessionHandler returns the DELETE /api/predict/session/{id} handler.
// Clearing an unknown session still succeeds.
func NewSessionHandler(engine *predict.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: []string{"session id is required"}})
			return
		}
		engine.ClearSession(id)
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	})
}

// ModelReporter reports trained-model load state.
type ModelReporter interface {
	Metadata() artifact.Metadata
}

// NewModelsHandler returns the GET /api/predict/models handler.
func NewModelsHandler(loader ModelReporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := loader.Metadata()
		info := map[string]any{
			"available_models": model.VehicleTypes(),
			"trained_model":    meta,
		}
		writeJSON(w, http.StatusOK, info)
	})
}
