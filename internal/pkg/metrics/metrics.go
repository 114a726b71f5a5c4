// Package metrics provides Prometheus metrics for the FinSmart backend
// (RED + security pipeline counters). Scrapeable at /metrics; dashboards and
// alert rules rely on these names.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finsmart"

var (
	// HTTPRequestTotal counts requests by method, path, status (RED: rate).
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, path, and status.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDurationSeconds is request latency histogram (RED: duration).
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms to ~9.3s
		},
		[]string{"method", "path"},
	)

	// RateLimitRejectionsTotal counts 429s by path prefix (capacity/abuse signal).
	RateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		},
		[]string{"prefix"},
	)

	// ValidationFailuresTotal counts schema validation failures by source.
	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Total number of request validation failures by input source.",
		},
		[]string{"source"},
	)

	// AuthFailuresTotal counts bearer-token gate rejections.
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Total number of requests rejected by the auth gate.",
		},
		[]string{"reason"},
	)

	// CSRFFailuresTotal counts double-submit token mismatches.
	CSRFFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csrf_failures_total",
			Help:      "Total number of requests rejected by CSRF validation.",
		},
	)

	// PredictionRequestsTotal counts completion-API calls by model endpoint and outcome.
	PredictionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_requests_total",
			Help:      "Total number of prediction service calls by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)
