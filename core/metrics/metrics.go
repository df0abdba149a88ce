// Package metrics defines the sink interface prediction telemetry is written
// to. Implementations live under infra/metrics.
package metrics

import "time"

// PredictionRecord captures one served prediction for observability sinks.
type PredictionRecord struct {
	VehicleType string
	ModelUsed   string
	Severity    string
	PowerKW     float64
	SpeedKmh    float64
	Confidence  float64
	Duration    time.Duration
	Timestamp   time.Time
}

// PredictionSink records served predictions.
type PredictionSink interface {
	RecordPrediction(rec PredictionRecord) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionRecord) error { return nil }

// Config selects and configures the enabled sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}
