package metrics

import (
	"errors"

	coremetrics "github.com/serikch/evpredict/core/metrics"
)

// MultiSink fans records out to several sinks, collecting all errors.
type MultiSink struct {
	sinks []coremetrics.PredictionSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.PredictionSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordPrediction forwards the record to every sink.
func (m *MultiSink) RecordPrediction(rec coremetrics.PredictionRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordPrediction(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
