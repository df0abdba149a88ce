package regressor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// LinearModel is a linear regression over named features: weights are keyed
// by feature name and Features fixes the input ordering.
type LinearModel struct {
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
	Features  []string           `json:"features,omitempty"`
	Version   string             `json:"version,omitempty"`

	coeffs []float64
}

// Compile resolves the weight map into an ordered coefficient vector. It must
// be called once after deserialization, before Predict.
func (m *LinearModel) Compile(fallbackOrder []string) error {
	if len(m.Weights) == 0 {
		return fmt.Errorf("linear model has no weights")
	}
	if len(m.Features) == 0 {
		m.Features = fallbackOrder
	}
	m.coeffs = make([]float64, len(m.Features))
	for i, name := range m.Features {
		m.coeffs[i] = m.Weights[name]
	}
	return nil
}

// FeatureNames reports the ordering fixed by Compile.
func (m *LinearModel) FeatureNames() []string { return m.Features }

// Predict computes intercept + w·x.
func (m *LinearModel) Predict(vec []float64) (float64, error) {
	if m.coeffs == nil {
		return 0, fmt.Errorf("model not compiled")
	}
	if len(vec) != len(m.coeffs) {
		return 0, fmt.Errorf("feature vector length %d, want %d", len(vec), len(m.coeffs))
	}
	return m.Intercept + floats.Dot(m.coeffs, vec), nil
}
