package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/serikch/evpredict/core/metrics"
)

// PromSink records served predictions in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	power       *prometheus.HistogramVec
}

// NewPromSink registers prediction metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "predictions_total",
		Help: "Total number of served predictions",
	}, []string{"vehicle_type", "model_used", "severity"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_duration_seconds",
		Help:    "Time spent producing a prediction",
		Buckets: prometheus.DefBuckets,
	}, []string{"model_used"})
	power := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "predicted_power_kw",
		Help:    "Distribution of predicted battery power",
		Buckets: []float64{-20, -5, 0, 5, 10, 25, 40, 60, 80, 120},
	}, []string{"vehicle_type", "model_used"})

	if err := reg.Register(predictions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			predictions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(power); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			power = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{predictions: predictions, latency: latency, power: power}, nil
}

// RecordPrediction increments the counters and histograms for one prediction.
func (s *PromSink) RecordPrediction(rec coremetrics.PredictionRecord) error {
	s.predictions.WithLabelValues(rec.VehicleType, rec.ModelUsed, rec.Severity).Inc()
	s.latency.WithLabelValues(rec.ModelUsed).Observe(rec.Duration.Seconds())
	s.power.WithLabelValues(rec.VehicleType, rec.ModelUsed).Observe(rec.PowerKW)
	return nil
}
