package regressor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearModel_Predict(t *testing.T) {
	m := &LinearModel{
		Intercept: 1.5,
		Weights:   map[string]float64{"a": 2, "b": -1},
		Features:  []string{"a", "b"},
	}
	require.NoError(t, m.Compile(nil))
	got, err := m.Predict([]float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.5+6-4, got, 1e-9)
}

func TestLinearModel_CompileFallbackOrder(t *testing.T) {
	m := &LinearModel{Weights: map[string]float64{"x": 1}}
	require.NoError(t, m.Compile([]string{"x", "y"}))
	assert.Equal(t, []string{"x", "y"}, m.FeatureNames())
	got, err := m.Predict([]float64{5, 99})
	require.NoError(t, err)
	// "y" has no weight, so it contributes nothing.
	assert.InDelta(t, 5, got, 1e-9)
}

func TestLinearModel_PredictErrors(t *testing.T) {
	m := &LinearModel{Weights: map[string]float64{"a": 1}, Features: []string{"a"}}
	_, err := m.Predict([]float64{1})
	assert.Error(t, err, "predict before compile must fail")

	require.NoError(t, m.Compile(nil))
	_, err = m.Predict([]float64{1, 2})
	assert.Error(t, err, "length mismatch must fail")
}

func TestLinearModel_CompileNoWeights(t *testing.T) {
	m := &LinearModel{}
	assert.Error(t, m.Compile([]string{"a"}))
}
