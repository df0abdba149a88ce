// Package physics implements a closed-form longitudinal-dynamics estimate of
// battery power. It is the fallback path when no trained model is available
// and the sanity baseline for trained-model output.
package physics

import (
	"math"

	"github.com/serikch/evpredict/core/model"
)

const (
	airDensity = 1.225 // kg/m^3 at sea level
	gravity    = 9.81  // m/s^2

	// regenEff is the fraction of braking work recovered into the battery.
	regenEff = 0.7

	// Auxiliary loads: base draw plus climate control outside the comfort band.
	auxBaseKW    = 0.5
	auxClimateKW = 1.5
	comfortMinC  = 10.0
	comfortMaxC  = 25.0
)

// PowerKW estimates battery power draw in kW for the given driving state.
// Positive values draw from the battery, negative values regenerate.
// The result is always finite.
func PowerKW(speedKmh, accelMps2, slopePercent, ambientTempC float64, vehicleType string) float64 {
	spec := model.SpecFor(vehicleType)

	speedMs := speedKmh / 3.6
	slopeRad := math.Atan(slopePercent / 100)

	fAero := 0.5 * airDensity * spec.DragArea * speedMs * speedMs
	fRoll := spec.RollingResist * spec.MassKg * gravity * math.Cos(slopeRad)
	fGrade := spec.MassKg * gravity * math.Sin(slopeRad)
	fInertia := spec.MassKg * accelMps2

	wheelsKW := (fAero + fRoll + fGrade + fInertia) * speedMs / 1000

	var powerKW float64
	if wheelsKW > 0 {
		powerKW = wheelsKW / spec.DriveEff
	} else {
		// Regen recovers only part of the braking work; the sign is kept.
		powerKW = wheelsKW * regenEff
	}

	aux := auxBaseKW
	if ambientTempC < comfortMinC || ambientTempC > comfortMaxC {
		aux += auxClimateKW
	}
	return powerKW + aux
}
