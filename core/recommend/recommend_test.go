package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serikch/evpredict/core/model"
)

func TestRecommend_RegenWinsOverEverything(t *testing.T) {
	e := New(Thresholds{})
	// Speed and slope alone would trigger the danger and climb rules.
	rec := e.Recommend(-10, Context{SpeedKmh: 150, SlopePercent: 8, AccelerationMps2: 3})
	assert.Equal(t, model.SeverityInfo, rec.Severity)
	assert.Contains(t, rec.Message, "Regenerating 10 kW")
}

func TestRecommend_PriorityLadder(t *testing.T) {
	e := New(Thresholds{})
	cases := []struct {
		name  string
		power float64
		ctx   Context
		want  model.Severity
	}{
		{"danger high power high speed", 90, Context{SpeedKmh: 130}, model.SeverityDanger},
		{"climb", 50, Context{SpeedKmh: 60, SlopePercent: 6}, model.SeverityWarning},
		{"hard acceleration", 30, Context{SpeedKmh: 40, AccelerationMps2: 2.5}, model.SeverityWarning},
		{"fast cruising", 60, Context{SpeedKmh: 130}, model.SeverityWarning},
		{"eco", 15, Context{SpeedKmh: 80}, model.SeveritySuccess},
		{"normal", 30, Context{SpeedKmh: 80}, model.SeverityInfo},
		{"low speed low power is not eco", 10, Context{SpeedKmh: 10}, model.SeverityInfo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.Recommend(tc.power, tc.ctx).Severity)
		})
	}
}

func TestNew_PartialOverrideKeepsOtherDefaults(t *testing.T) {
	e := New(Thresholds{DangerPowerKW: 70})

	// The overridden bound is live.
	rec := e.Recommend(75, Context{SpeedKmh: 130})
	assert.Equal(t, model.SeverityDanger, rec.Severity)

	// Unset fields keep their defaults instead of collapsing to zero:
	// gentle acceleration at moderate power stays below every rule but eco.
	rec = e.Recommend(20, Context{SpeedKmh: 60, AccelerationMps2: 0.2})
	assert.Equal(t, model.SeveritySuccess, rec.Severity)

	// The optimal-speed baseline survives a partial override too.
	assert.Equal(t, 85.0, e.OptimalSpeed(Context{SpeedKmh: 85, SoC: 60}))
}

func TestRecommend_DangerNeedsBothPowerAndSpeed(t *testing.T) {
	e := New(Thresholds{})
	rec := e.Recommend(90, Context{SpeedKmh: 80})
	assert.NotEqual(t, model.SeverityDanger, rec.Severity)
}

func TestOptimalSpeed_Baseline(t *testing.T) {
	e := New(Thresholds{})
	assert.Equal(t, 85.0, e.OptimalSpeed(Context{SpeedKmh: 85, SoC: 60}))
}

func TestOptimalSpeed_SlopeBands(t *testing.T) {
	e := New(Thresholds{})
	assert.Equal(t, 70.0, e.OptimalSpeed(Context{SpeedKmh: 80, SlopePercent: 6, SoC: 60}))
	assert.Equal(t, 80.0, e.OptimalSpeed(Context{SpeedKmh: 80, SlopePercent: 3, SoC: 60}))
	assert.Equal(t, 90.0, e.OptimalSpeed(Context{SpeedKmh: 80, SlopePercent: -5, SoC: 60}))
}

func TestOptimalSpeed_MostRestrictiveWins(t *testing.T) {
	e := New(Thresholds{})
	// Steep climb plus low battery: both cap to 70.
	assert.Equal(t, 70.0, e.OptimalSpeed(Context{SpeedKmh: 90, SlopePercent: 8, SoC: 15}))
	// Descent raise loses against the SoC cap.
	assert.Equal(t, 70.0, e.OptimalSpeed(Context{SpeedKmh: 90, SlopePercent: -5, SoC: 15}))
	assert.Equal(t, 80.0, e.OptimalSpeed(Context{SpeedKmh: 90, SoC: 25}))
}

func TestOptimalSpeed_LowSpeedCap(t *testing.T) {
	e := New(Thresholds{})
	assert.Equal(t, 40.0, e.OptimalSpeed(Context{SpeedKmh: 30, SoC: 60}))
	assert.Equal(t, 15.0, e.OptimalSpeed(Context{SpeedKmh: 5, SoC: 60}))
}
