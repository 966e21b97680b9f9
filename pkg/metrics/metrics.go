// Package metrics exposes the Prometheus registry used by the homepage API.
// Metrics are defined in the packages that record them (cache, tag, project,
// api, client) and registered via promauto; this package serves them and
// documents what is available.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler serves the metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - homepage_cache_hits_total{backend} (Counter): Cache hits
//   - homepage_cache_misses_total{backend} (Counter): Cache misses
//   - homepage_cache_stores_total{backend} (Counter): Responses stored
//   - homepage_cache_bypass_total{reason} (Counter): Responses not stored (error, status)
//   - homepage_cache_errors_total{operation} (Counter): Backend errors
//   - homepage_cache_entries{backend} (Gauge): Entries held in memory
//   - homepage_cache_entry_bytes{backend} (Histogram): Encoded entry size in Redis
//
// Storage Metrics (internal/tag, internal/project):
//   - homepage_tag_inserts_total{result} (Counter): Tag names registered (created, existing)
//   - homepage_tag_deletes_total (Counter): Tags deleted
//   - homepage_project_writes_total{operation} (Counter): Committed project writes
//   - homepage_project_ownership_rejections_total{operation} (Counter): Non-owner mutations
//
// HTTP Metrics (internal/api):
//   - homepage_http_requests_total{method, route, status} (Counter): Handled requests
//   - homepage_http_request_duration_seconds{method, route} (Histogram): Request latency
//
// Client Metrics (pkg/client):
//   - homepage_client_requests_total{method, status} (Counter): Requests sent
//   - homepage_client_retries_total{error_class} (Counter): Retry attempts
//   - homepage_client_retry_backoff_seconds{error_class} (Histogram): Backoff duration
//   - homepage_client_retry_exhausted_total{error_class} (Counter): Requests that exhausted retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(homepage_cache_hits_total[5m])) /
//   (sum(rate(homepage_cache_hits_total[5m])) + sum(rate(homepage_cache_misses_total[5m])))
//
//   # Storage Unavailable Rate
//   sum(rate(homepage_http_requests_total{status="503"}[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(homepage_http_request_duration_seconds_bucket[5m]))
