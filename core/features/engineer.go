package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/serikch/evpredict/core/model"
)

// Snapshot carries the per-session aggregates needed for rolling-statistic
// and cumulative features. Windows hold the most recent values last and
// always include the current sample.
type Snapshot struct {
	Speeds         []float64 // up to the last 10 speeds, km/h
	Accels         []float64 // up to the last 5 accelerations, m/s^2
	Slopes         []float64 // up to the last 20 slopes, percent
	CumulGainM     float64
	CumulLossM     float64
	TimeSinceStopS float64
}

// Engineer expands a raw sensor sample plus derived kinematics into the full
// named feature map of the canonical order.
func Engineer(s model.SensorSample, k model.Kinematics, h Snapshot) map[string]float64 {
	speed := s.SpeedKmh
	accel := k.AccelerationMps2
	slope := k.SlopePercent
	slopeAbs := math.Abs(slope)

	f := map[string]float64{
		"speed_kmh":           speed,
		"speed2":              speed * speed,
		"speed3":              speed * speed * speed,
		"acceleration":        accel,
		"slope":               slope,
		"slope_abs":           slopeAbs,
		"elevation_diff":      k.ElevationDiffM,
		"VCFRONT_tempAmbient": s.AmbientTemp,
		"temp_range":          math.Abs(s.AmbientTemp - 20),
		"SOCave292":           s.SoC,
		"soc_delta":           k.SoCDelta,

		"speed_x_slope":     speed * slope,
		"speed2_x_slope":    speed * speed * slope,
		"speed_x_slope_abs": speed * slopeAbs,
		"accel_x_speed":     accel * speed,
		"accel_x_speed2":    accel * speed * speed,
		"total_effort":      speed*slopeAbs + math.Abs(accel)*speed,

		"speed_roll_mean_10": rollMean(h.Speeds, speed),
		"speed_roll_std_10":  rollStd(h.Speeds),
		"speed_roll_max_10":  rollMax(h.Speeds, speed),
		"speed_roll_min_10":  rollMin(h.Speeds, speed),
		"accel_roll_mean_5":  rollMean(h.Accels, accel),
		"accel_roll_std_5":   rollStd(h.Accels),
		"slope_roll_mean_20": rollMean(h.Slopes, slope),

		"cumul_elevation_gain": h.CumulGainM,
		"cumul_elevation_loss": h.CumulLossM,
		"time_since_stop":      h.TimeSinceStopS,

		"accel_per_speed": accel / math.Max(speed, 1),
		"slope_per_speed": slope / math.Max(speed, 1),
	}

	f["is_accelerating"] = boolFeature(accel > 0.1)
	f["is_braking"] = boolFeature(accel < -0.1)
	f["is_coasting"] = boolFeature(accel >= -0.1 && accel <= 0.1)
	f["regen_potential"] = boolFeature(accel < -0.1 && speed > 10)

	f["speed_regime"] = speedRegime(speed)
	f["slope_category"] = slopeCategory(slope)
	f["temp_category"] = tempCategory(s.AmbientTemp)

	return f
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func rollMean(window []float64, current float64) float64 {
	if len(window) == 0 {
		return current
	}
	return stat.Mean(window, nil)
}

// rollStd uses the sample standard deviation, zero for windows shorter than 2.
func rollStd(window []float64) float64 {
	if len(window) < 2 {
		return 0
	}
	return stat.StdDev(window, nil)
}

func rollMax(window []float64, current float64) float64 {
	if len(window) == 0 {
		return current
	}
	return floats.Max(window)
}

func rollMin(window []float64, current float64) float64 {
	if len(window) == 0 {
		return current
	}
	return floats.Min(window)
}

func speedRegime(speedKmh float64) float64 {
	switch {
	case speedKmh < 30:
		return 0
	case speedKmh < 60:
		return 1
	case speedKmh < 90:
		return 2
	case speedKmh < 120:
		return 3
	default:
		return 4
	}
}

func slopeCategory(slopePercent float64) float64 {
	switch {
	case slopePercent < -2:
		return -1
	case slopePercent > 2:
		return 1
	default:
		return 0
	}
}

func tempCategory(tempC float64) float64 {
	switch {
	case tempC < 10:
		return 0
	case tempC > 25:
		return 2
	default:
		return 1
	}
}
