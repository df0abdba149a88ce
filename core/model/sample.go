package model

// SensorSample is a raw instantaneous reading from a vehicle, submitted when
// the caller has no pre-engineered feature vector.
type SensorSample struct {
	SpeedKmh    float64  `json:"speed_kmh"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Elevation   *float64 `json:"elevation,omitempty"`
	Timestamp   float64  `json:"timestamp"` // unix seconds
	SoC         float64  `json:"soc"`
	AmbientTemp float64  `json:"ambient_temp"`
}

// ElevationM returns the sample elevation or zero when the elevation was not
// resolved by the elevation collaborator.
func (s SensorSample) ElevationM() float64 {
	if s.Elevation == nil {
		return 0
	}
	return *s.Elevation
}

// Kinematics holds quantities derived from two successive samples of the same
// session.
type Kinematics struct {
	AccelerationMps2 float64
	SlopePercent     float64
	ElevationDiffM   float64
	SoCDelta         float64
	ElapsedS         float64
}
