// Package metrics exposes Prometheus instrumentation for the generation
// pipeline. A nil *Metrics is valid and records nothing, so callers never
// guard their observation calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	stageAttempts      *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	retriesExhausted   *prometheus.CounterVec
	stageDuration      *prometheus.HistogramVec
	feedbackIterations *prometheus.CounterVec
}

// New creates pipeline metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antechamber",
			Name:      "stage_attempts_total",
			Help:      "Generation attempts per pipeline stage.",
		}, []string{"stage"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antechamber",
			Name:      "validation_failures_total",
			Help:      "Candidates that failed structural validation, per stage.",
		}, []string{"stage"}),
		retriesExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antechamber",
			Name:      "retries_exhausted_total",
			Help:      "Retry budgets exhausted with a degraded result, per stage.",
		}, []string{"stage"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "antechamber",
			Name:      "stage_duration_seconds",
			Help:      "Wall time per stage invocation, including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"stage"}),
		feedbackIterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antechamber",
			Name:      "feedback_iterations_total",
			Help:      "Feedback-loop iterations consumed, per stage.",
		}, []string{"stage"}),
	}

	reg.MustRegister(
		m.stageAttempts,
		m.validationFailures,
		m.retriesExhausted,
		m.stageDuration,
		m.feedbackIterations,
	)
	return m
}

// ObserveAttempt records one generation attempt.
func (m *Metrics) ObserveAttempt(stage string) {
	if m == nil {
		return
	}
	m.stageAttempts.WithLabelValues(stage).Inc()
}

// ObserveValidationFailure records one failed validation.
func (m *Metrics) ObserveValidationFailure(stage string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(stage).Inc()
}

// ObserveRetriesExhausted records a retry budget exhausted with a degraded
// result.
func (m *Metrics) ObserveRetriesExhausted(stage string) {
	if m == nil {
		return
	}
	m.retriesExhausted.WithLabelValues(stage).Inc()
}

// ObserveStageDuration records the wall time of one stage invocation.
func (m *Metrics) ObserveStageDuration(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveIteration records one feedback-loop iteration.
func (m *Metrics) ObserveIteration(stage string) {
	if m == nil {
		return
	}
	m.feedbackIterations.WithLabelValues(stage).Inc()
}
