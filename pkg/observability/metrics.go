package observability

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the dispatch lifecycle with Prometheus collectors.
type Metrics struct {
	calls    *prometheus.CounterVec
	results  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on reg
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendril_calls_total",
				Help: "Call invocations dispatched, per endpoint.",
			},
			[]string{"endpoint"},
		),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendril_results_total",
				Help: "Invocation outcomes per endpoint. Timeouts are counted here even though they emit no action.",
			},
			[]string{"endpoint", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tendril_call_duration_seconds",
				Help:    "Time from Request action to terminal action.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "outcome"},
		),
	}
	reg.MustRegister(m.calls, m.results, m.duration)
	return m
}

// Hooks returns the lifecycle hooks feeding this collector. Merge them with
// application hooks via domain.LifecycleHooks.Merge.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRequest: func(_ context.Context, e *domain.CallEvent) {
			m.calls.WithLabelValues(e.Endpoint).Inc()
		},
		OnSuccess: func(_ context.Context, e *domain.ResultEvent) {
			m.results.WithLabelValues(e.Endpoint, "success").Inc()
			m.duration.WithLabelValues(e.Endpoint, "success").Observe(e.Elapsed.Seconds())
		},
		OnFailure: func(_ context.Context, e *domain.ResultEvent) {
			m.results.WithLabelValues(e.Endpoint, "failure").Inc()
			m.duration.WithLabelValues(e.Endpoint, "failure").Observe(e.Elapsed.Seconds())
		},
		OnTimeout: func(_ context.Context, e *domain.CallEvent) {
			m.results.WithLabelValues(e.Endpoint, "timeout").Inc()
		},
	}
}
