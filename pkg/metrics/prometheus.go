package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal   *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	cycleProcessed prometheus.Gauge
	cycleDegraded  prometheus.Gauge
	compositeScore *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moonlander_fetches_total",
				Help: "Total number of upstream fetches by kind and result",
			},
			[]string{"kind", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moonlander_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "moonlander_cycle_duration_seconds",
				Help:    "Duration of a full signal generation cycle",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		cycleProcessed: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "moonlander_cycle_assets_processed",
				Help: "Assets scored in the last completed cycle",
			},
		),
		cycleDegraded: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "moonlander_cycle_assets_degraded",
				Help: "Assets omitted from the last completed cycle",
			},
		),
		compositeScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moonlander_composite_score",
				Help: "Last composite score per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moonlander_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records an upstream fetch attempt.
func (r *Recorder) RecordFetch(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.fetchesTotal.WithLabelValues(kind, result).Inc()
}

// RecordCycle records one completed generation cycle.
func (r *Recorder) RecordCycle(seconds float64, processed, degraded int) {
	r.cycleDuration.Observe(seconds)
	r.cycleProcessed.Set(float64(processed))
	r.cycleDegraded.Set(float64(degraded))
}

// RecordComposite records a symbol's composite score.
func (r *Recorder) RecordComposite(symbol string, score float64) {
	r.compositeScore.WithLabelValues(symbol).Set(score)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
