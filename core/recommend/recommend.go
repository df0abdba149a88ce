// Package recommend turns a power prediction and its driving context into
// advice for the driver. Rules are evaluated in a fixed priority order and
// the first match wins.
package recommend

import (
	"fmt"
	"math"

	"github.com/serikch/evpredict/core/model"
)

// Context is the driving state a recommendation is based on.
type Context struct {
	SpeedKmh         float64
	SlopePercent     float64
	AccelerationMps2 float64
	SoC              float64
}

// Thresholds are the tuning constants of the rule ladder. Two variants of the
// danger and acceleration thresholds circulated historically (50 vs 80 kW,
// 1.5 vs 2.0 m/s²); the defaults below pick the stricter power bound and the
// looser acceleration bound and are configuration, not hardcoded policy.
type Thresholds struct {
	RegenInfoKW     float64 `json:"regen_info_kw"`
	DangerPowerKW   float64 `json:"danger_power_kw"`
	DangerSpeedKmh  float64 `json:"danger_speed_kmh"`
	ClimbSlopePct   float64 `json:"climb_slope_pct"`
	ClimbPowerKW    float64 `json:"climb_power_kw"`
	AccelWarnMps2   float64 `json:"accel_warn_mps2"`
	FastSpeedKmh    float64 `json:"fast_speed_kmh"`
	FastPowerKW     float64 `json:"fast_power_kw"`
	EcoPowerKW      float64 `json:"eco_power_kw"`
	EcoMinSpeedKmh  float64 `json:"eco_min_speed_kmh"`
	BaseOptimalKmh  float64 `json:"base_optimal_kmh"`
}

// DefaultThresholds returns the shipped rule constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RegenInfoKW:    -5,
		DangerPowerKW:  80,
		DangerSpeedKmh: 100,
		ClimbSlopePct:  5,
		ClimbPowerKW:   40,
		AccelWarnMps2:  2.0,
		FastSpeedKmh:   120,
		FastPowerKW:    50,
		EcoPowerKW:     25,
		EcoMinSpeedKmh: 30,
		BaseOptimalKmh: 85,
	}
}

// Engine evaluates the rule ladder.
type Engine struct {
	t Thresholds
}

// New creates an Engine. Each zero field falls back to its default, so a
// config may override a single constant without restating the rest.
func New(t Thresholds) Engine {
	d := DefaultThresholds()
	if t.RegenInfoKW == 0 {
		t.RegenInfoKW = d.RegenInfoKW
	}
	if t.DangerPowerKW == 0 {
		t.DangerPowerKW = d.DangerPowerKW
	}
	if t.DangerSpeedKmh == 0 {
		t.DangerSpeedKmh = d.DangerSpeedKmh
	}
	if t.ClimbSlopePct == 0 {
		t.ClimbSlopePct = d.ClimbSlopePct
	}
	if t.ClimbPowerKW == 0 {
		t.ClimbPowerKW = d.ClimbPowerKW
	}
	if t.AccelWarnMps2 == 0 {
		t.AccelWarnMps2 = d.AccelWarnMps2
	}
	if t.FastSpeedKmh == 0 {
		t.FastSpeedKmh = d.FastSpeedKmh
	}
	if t.FastPowerKW == 0 {
		t.FastPowerKW = d.FastPowerKW
	}
	if t.EcoPowerKW == 0 {
		t.EcoPowerKW = d.EcoPowerKW
	}
	if t.EcoMinSpeedKmh == 0 {
		t.EcoMinSpeedKmh = d.EcoMinSpeedKmh
	}
	if t.BaseOptimalKmh == 0 {
		t.BaseOptimalKmh = d.BaseOptimalKmh
	}
	return Engine{t: t}
}

// Recommend returns the first matching advice for the predicted power and
// context. Later rules are never evaluated once one matches.
func (e Engine) Recommend(powerKW float64, c Context) model.Recommendation {
	switch {
	case powerKW < e.t.RegenInfoKW:
		return model.Recommendation{
			Message:  fmt.Sprintf("Regenerating %.0f kW back into the battery", math.Abs(powerKW)),
			Severity: model.SeverityInfo,
		}
	case powerKW > e.t.DangerPowerKW && c.SpeedKmh > e.t.DangerSpeedKmh:
		return model.Recommendation{
			Message:  "Very high consumption - reduce speed to about 90 km/h",
			Severity: model.SeverityDanger,
		}
	case c.SlopePercent > e.t.ClimbSlopePct && powerKW > e.t.ClimbPowerKW:
		return model.Recommendation{
			Message:  "Climbing - hold a steady speed until the top",
			Severity: model.SeverityWarning,
		}
	case c.AccelerationMps2 > e.t.AccelWarnMps2:
		return model.Recommendation{
			Message:  "Accelerate more gently to save energy",
			Severity: model.SeverityWarning,
		}
	case c.SpeedKmh > e.t.FastSpeedKmh && powerKW > e.t.FastPowerKW:
		return model.Recommendation{
			Message:  "High cruising consumption - reduce speed to 110 km/h",
			Severity: model.SeverityWarning,
		}
	case powerKW < e.t.EcoPowerKW && c.SpeedKmh > e.t.EcoMinSpeedKmh:
		return model.Recommendation{
			Message:  "Efficient driving - keep it up",
			Severity: model.SeveritySuccess,
		}
	default:
		return model.Recommendation{
			Message:  "Normal driving",
			Severity: model.SeverityInfo,
		}
	}
}

// OptimalSpeed suggests the most efficient speed for the context. Slope and
// state-of-charge caps stack: the most restrictive bound wins. From low
// speeds the suggestion never exceeds current speed by more than 10 km/h.
func (e Engine) OptimalSpeed(c Context) float64 {
	v := e.t.BaseOptimalKmh
	switch {
	case c.SlopePercent > 5:
		v = math.Min(v, 70)
	case c.SlopePercent > 2:
		v = math.Min(v, 80)
	case c.SlopePercent < -3:
		v = math.Max(v, 90)
	}
	switch {
	case c.SoC < 20:
		v = math.Min(v, 70)
	case c.SoC < 30:
		v = math.Min(v, 80)
	}
	if c.SpeedKmh < 50 {
		v = math.Min(v, c.SpeedKmh+10)
	}
	return v
}
