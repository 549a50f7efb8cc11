// Package metrics exposes the resolution engine's health and audit
// surface as Prometheus collectors, scraped at GET /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds every collector the service exposes. A single instance
// is constructed at startup and threaded into the components that
// observe it.
type Registry struct {
	ResolveRequestsTotal   *prometheus.CounterVec
	ResolveDurationSeconds prometheus.Histogram
	FeedbackTotal          *prometheus.CounterVec
	FastMemorySize         prometheus.Gauge
	ReviewQueuePending     prometheus.Gauge
	CircuitBreakerState    prometheus.Gauge
}

// NewRegistry creates and registers every collector against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		ResolveRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resolve_requests_total",
			Help: "Total resolve-intent requests, labeled by result.",
		}, []string{"result"}),
		ResolveDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resolve_duration_seconds",
			Help:    "Latency of resolve-intent requests.",
			Buckets: prometheus.DefBuckets,
		}),
		FeedbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_total",
			Help: "Total feedback submissions, labeled by action taken.",
		}, []string{"action"}),
		FastMemorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fast_memory_size",
			Help: "Current number of golden records held in Fast Memory.",
		}),
		ReviewQueuePending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "review_queue_pending",
			Help: "Current number of review items awaiting adjudication.",
		}),
		CircuitBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Database write circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
	}

	reg.MustRegister(
		m.ResolveRequestsTotal,
		m.ResolveDurationSeconds,
		m.FeedbackTotal,
		m.FastMemorySize,
		m.ReviewQueuePending,
		m.CircuitBreakerState,
	)

	return m
}

// ObserveResolve records the outcome and latency of a resolve-intent call.
func (m *Registry) ObserveResolve(result string, seconds float64) {
	m.ResolveRequestsTotal.WithLabelValues(result).Inc()
	m.ResolveDurationSeconds.Observe(seconds)
}

// ObserveFeedback records a feedback submission's routing action.
func (m *Registry) ObserveFeedback(action string) {
	m.FeedbackTotal.WithLabelValues(action).Inc()
}
