package scenarios

import (
	"testing"

	"github.com/serikch/evpredict/core/predict"
	"github.com/serikch/evpredict/core/recommend"
	"github.com/serikch/evpredict/core/session"
	"github.com/serikch/evpredict/infra/logger"
)

// RunScenario replays the scripted drive through a fresh engine and asserts
// each step's expectations. The engine runs without a trained model so the
// physics path is what gets checked.
func RunScenario(t *testing.T, sc *Scenario) {
	store := session.New(session.Config{}, logger.NopLogger{})
	engine := predict.New(nil, store, recommend.New(recommend.Thresholds{}), nil, nil, logger.NopLogger{})

	for i, step := range sc.Steps {
		sample := step.Sample.ToModel()
		res := engine.Predict(predict.Request{
			VehicleType: sc.VehicleType,
			SessionID:   sc.Name,
			Sample:      &sample,
		})

		exp := step.Expect
		if exp.Severity != "" && string(res.Severity) != exp.Severity {
			t.Errorf("%s step %d: severity = %q, want %q (power %.1f kW)",
				sc.Name, i, res.Severity, exp.Severity, res.BatteryPowerKW)
		}
		if exp.ModelUsed != "" && res.ModelUsed != exp.ModelUsed {
			t.Errorf("%s step %d: model_used = %q, want %q", sc.Name, i, res.ModelUsed, exp.ModelUsed)
		}
		if exp.MinPowerKW != nil && res.BatteryPowerKW < *exp.MinPowerKW {
			t.Errorf("%s step %d: power %.1f kW below %.1f", sc.Name, i, res.BatteryPowerKW, *exp.MinPowerKW)
		}
		if exp.MaxPowerKW != nil && res.BatteryPowerKW > *exp.MaxPowerKW {
			t.Errorf("%s step %d: power %.1f kW above %.1f", sc.Name, i, res.BatteryPowerKW, *exp.MaxPowerKW)
		}
	}
}
