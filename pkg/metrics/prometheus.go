package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal     *prometheus.CounterVec
	modelFailures      *prometheus.CounterVec
	governanceFailures *prometheus.CounterVec
	alertsFired        *prometheus.CounterVec
	latency            *prometheus.HistogramVec
}

var (
	once     sync.Once
	instance *Recorder
)

// New returns the process-wide Prometheus metrics recorder. Collectors
// register with the default registry exactly once.
func New() *Recorder {
	once.Do(func() {
		instance = newRecorder()
	})
	return instance
}

func newRecorder() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_forecasts_total",
				Help: "Total number of forecasts generated",
			},
			[]string{"persona", "horizon"},
		),
		modelFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_model_failures_total",
				Help: "Forecast model fit/forecast failures excluded by the ensemble",
			},
			[]string{"model"},
		),
		governanceFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_governance_failures_total",
				Help: "Creator Check failures by rule note",
			},
			[]string{"rule"},
		),
		alertsFired: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_alerts_fired_total",
				Help: "Alert rules fired by evaluation",
			},
			[]string{"rule", "severity"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizpulse_operation_duration_seconds",
				Help:    "Duration of pipeline operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast records one generated forecast per horizon.
func (r *Recorder) RecordForecast(persona, horizon string) {
	r.forecastsTotal.WithLabelValues(persona, horizon).Inc()
}

// RecordModelFailure records a model excluded from the ensemble.
func (r *Recorder) RecordModelFailure(model string) {
	r.modelFailures.WithLabelValues(model).Inc()
}

// RecordGovernanceFailure records a failed Creator Check rule.
func (r *Recorder) RecordGovernanceFailure(rule string) {
	r.governanceFailures.WithLabelValues(rule).Inc()
}

// RecordAlertFired records a fired alert rule.
func (r *Recorder) RecordAlertFired(rule, severity string) {
	r.alertsFired.WithLabelValues(rule, severity).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
