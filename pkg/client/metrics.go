package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for API client operations.
var (
	clientRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homepage_client_requests_total",
		Help: "Total API requests sent by method and status",
	}, []string{"method", "status"})

	clientRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homepage_client_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	clientRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "homepage_client_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"error_class"})

	clientRetryExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "homepage_client_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)
