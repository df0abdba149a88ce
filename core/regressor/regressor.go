// Package regressor defines the capability surface of an externally trained
// model and the concrete model kinds the artifact loader can materialize.
package regressor

// Regressor produces a scalar prediction from an ordered numeric vector.
type Regressor interface {
	Predict(vec []float64) (float64, error)
}

// FeatureNamer is an optional capability: a model that knows its own expected
// feature ordering. Models without it are fed the canonical order.
type FeatureNamer interface {
	FeatureNames() []string
}
