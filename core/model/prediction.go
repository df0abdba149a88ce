package model

// Severity classifies a driving recommendation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Model tags identify which prediction path produced the power figure.
const (
	ModelML      = "ml"
	ModelPhysics = "physics"
)

// Recommendation is a driving-advice message with a severity category.
type Recommendation struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// PredictionResult is the structured outcome of a single prediction request.
// It is produced fresh per request and never persisted.
type PredictionResult struct {
	BatteryPowerKW   float64  `json:"battery_power_kw"`
	EfficiencyKWh100 float64  `json:"efficiency_kwh_100km"`
	Confidence       float64  `json:"confidence"`
	OptimalSpeedKmh  float64  `json:"optimal_speed_kmh"`
	Recommendation   string   `json:"recommendation_message"`
	Severity         Severity `json:"recommendation_type"`
	ModelUsed        string   `json:"model_used"`
	SpeedKmh         float64  `json:"-"`
	AccelerationMps2 float64  `json:"-"`
	SlopePercent     float64  `json:"-"`
}
