package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics records calls the client makes against the storefront backend.
type APIMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewAPIMetrics registers the client call metrics on the provided registerer.
func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	if reg == nil {
		return &APIMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_api_request_duration_seconds",
		Help:    "Duration of storefront API calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_api_requests_total",
		Help: "Storefront API calls by outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, requests)
	return &APIMetrics{
		duration: duration,
		requests: requests,
	}
}

// Observe records one finished call. outcome is "ok", "api_error" or "network_error".
func (m *APIMetrics) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	operation = normalizeLabel(operation)
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(operation, normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
