package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/serikch/evpredict/core/model"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func elev(v float64) *float64 { return &v }

func newStore(cfg Config) *Store { return New(cfg, nopLogger{}) }

func TestObserve_FirstCallYieldsZeroKinematics(t *testing.T) {
	s := newStore(Config{})
	k, snap := s.Observe("s1", model.SensorSample{
		SpeedKmh: 50, Latitude: 45, Longitude: 5, Elevation: elev(100), Timestamp: 1000, SoC: 80,
	})
	assert.Zero(t, k.AccelerationMps2)
	assert.Zero(t, k.SlopePercent)
	assert.Zero(t, snap.TimeSinceStopS)
	assert.Equal(t, []float64{50}, snap.Speeds)
}

func TestObserve_DerivationDeterminism(t *testing.T) {
	s := newStore(Config{})
	t0 := 1000.0
	s.Observe("s1", model.SensorSample{
		SpeedKmh: 50, Latitude: 45, Longitude: 5, Elevation: elev(100), Timestamp: t0, SoC: 80,
	})
	// ~11 m north, 4 m up over 2 s.
	k, _ := s.Observe("s1", model.SensorSample{
		SpeedKmh: 70, Latitude: 45.0001, Longitude: 5, Elevation: elev(104), Timestamp: t0 + 2, SoC: 79,
	})
	wantAccel := (70/3.6 - 50/3.6) / 2
	assert.InDelta(t, wantAccel, k.AccelerationMps2, 1e-9)
	// Raw slope is ~36%, clamped to the noise bound.
	assert.Equal(t, 20.0, k.SlopePercent)
	assert.InDelta(t, 4.0, k.ElevationDiffM, 1e-9)
	assert.InDelta(t, -1.0, k.SoCDelta, 1e-9)
}

func TestObserve_SlopeZeroBelowMinDistance(t *testing.T) {
	s := newStore(Config{})
	s.Observe("s1", model.SensorSample{SpeedKmh: 50, Latitude: 45, Longitude: 5, Elevation: elev(100), Timestamp: 1000})
	k, _ := s.Observe("s1", model.SensorSample{SpeedKmh: 50, Latitude: 45, Longitude: 5, Elevation: elev(110), Timestamp: 1002})
	assert.Zero(t, k.SlopePercent)
}

func TestObserve_ElapsedClamp(t *testing.T) {
	s := newStore(Config{})
	s.Observe("s1", model.SensorSample{SpeedKmh: 0, Timestamp: 1000})
	// Same timestamp: elapsed must clamp to 0.1 s, not divide by zero.
	k, _ := s.Observe("s1", model.SensorSample{SpeedKmh: 36, Timestamp: 1000})
	assert.InDelta(t, 10/0.1, k.AccelerationMps2, 1e-9)
}

func TestDelete_Idempotent(t *testing.T) {
	s := newStore(Config{})
	s.Delete("never-seen")

	s.Observe("s1", model.SensorSample{SpeedKmh: 50, Timestamp: 1000})
	s.Delete("s1")
	s.Delete("s1")

	// After deletion the next call behaves like a first call.
	k, _ := s.Observe("s1", model.SensorSample{SpeedKmh: 80, Timestamp: 1010})
	assert.Zero(t, k.AccelerationMps2)
}

func TestObserve_TimeSinceStop(t *testing.T) {
	s := newStore(Config{})
	s.Observe("s1", model.SensorSample{SpeedKmh: 0, Timestamp: 1000})
	_, snap := s.Observe("s1", model.SensorSample{SpeedKmh: 30, Timestamp: 1015})
	assert.InDelta(t, 15, snap.TimeSinceStopS, 1e-9)
}

func TestEviction_MaxEntries(t *testing.T) {
	s := newStore(Config{MaxEntries: 2})
	s.Observe("a", model.SensorSample{Timestamp: 1})
	s.Observe("b", model.SensorSample{Timestamp: 2})
	s.Observe("c", model.SensorSample{Timestamp: 3})
	assert.LessOrEqual(t, s.Len(), 2)
}

func TestEviction_MaxAge(t *testing.T) {
	s := newStore(Config{MaxAge: time.Minute})
	base := time.Now()
	s.now = func() time.Time { return base }
	s.Observe("a", model.SensorSample{Timestamp: 1})
	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	s.Observe("b", model.SensorSample{Timestamp: 2})
	assert.Equal(t, 1, s.Len())
}

func TestHaversine(t *testing.T) {
	// One degree of latitude is roughly 111 km.
	d := Haversine(45, 5, 46, 5)
	assert.InDelta(t, 111195, d, 100)
	assert.Zero(t, Haversine(45, 5, 45, 5))
}
