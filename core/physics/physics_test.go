package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serikch/evpredict/core/model"
)

func TestPowerKW_FiniteAcrossInputRange(t *testing.T) {
	for speed := 0.0; speed <= 250; speed += 25 {
		for slope := -20.0; slope <= 20; slope += 5 {
			for accel := -5.0; accel <= 5; accel += 2.5 {
				for temp := -20.0; temp <= 45; temp += 13 {
					p := PowerKW(speed, accel, slope, temp, "BEV1")
					if math.IsNaN(p) || math.IsInf(p, 0) {
						t.Fatalf("non-finite power %v at speed=%v slope=%v accel=%v temp=%v",
							p, speed, slope, accel, temp)
					}
				}
			}
		}
	}
}

func TestPowerKW_AeroDragMonotonicInSpeed(t *testing.T) {
	prev := PowerKW(10, 0, 0, 20, "BEV1")
	for speed := 20.0; speed <= 250; speed += 10 {
		p := PowerKW(speed, 0, 0, 20, "BEV1")
		if p <= prev {
			t.Fatalf("power not increasing with speed: %.3f kW at %.0f km/h vs %.3f before", p, speed, prev)
		}
		prev = p
	}
}

func TestPowerKW_RegenSignPolicy(t *testing.T) {
	// Hard braking downhill: net wheel power is negative.
	spec := model.SpecFor("BEV1")
	speedMs := 80.0 / 3.6
	slopeRad := math.Atan(-10.0 / 100)
	fAero := 0.5 * 1.225 * spec.DragArea * speedMs * speedMs
	fRoll := spec.RollingResist * spec.MassKg * 9.81 * math.Cos(slopeRad)
	fGrade := spec.MassKg * 9.81 * math.Sin(slopeRad)
	fInertia := spec.MassKg * -3.0
	wheelsKW := (fAero + fRoll + fGrade + fInertia) * speedMs / 1000
	if wheelsKW >= 0 {
		t.Fatalf("test setup expects negative wheel power, got %v", wheelsKW)
	}

	p := PowerKW(80, -3.0, -10, 20, "BEV1")
	battery := p - 0.5 // strip base auxiliary load
	assert.Negative(t, battery)
	assert.Less(t, math.Abs(battery), math.Abs(wheelsKW), "regen must recover less than wheel work")
	assert.InDelta(t, wheelsKW*0.7, battery, 1e-9)
}

func TestPowerKW_ClimateLoad(t *testing.T) {
	mild := PowerKW(50, 0, 0, 20, "BEV1")
	cold := PowerKW(50, 0, 0, 5, "BEV1")
	hot := PowerKW(50, 0, 0, 30, "BEV1")
	assert.InDelta(t, 1.5, cold-mild, 1e-9)
	assert.InDelta(t, 1.5, hot-mild, 1e-9)
}

func TestPowerKW_UnknownVehicleFallsBack(t *testing.T) {
	assert.Equal(t, PowerKW(100, 0, 2, 20, "BEV1"), PowerKW(100, 0, 2, 20, "no-such-vehicle"))
}

func TestPowerKW_HeavierVehicleClimbsHarder(t *testing.T) {
	light := PowerKW(90, 0, 6, 20, "BEV1")
	heavy := PowerKW(90, 0, 6, 20, "BEV2")
	assert.Greater(t, heavy, light)
}
