package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepage_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"backend"}, // "memory", "redis"
	)

	// CacheMisses tracks cache misses by backend
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepage_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"backend"},
	)

	// CacheStores tracks entries written by backend
	CacheStores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepage_cache_stores_total",
			Help: "Total number of responses stored in the cache",
		},
		[]string{"backend"},
	)

	// CacheBypasses tracks responses that were not stored
	CacheBypasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepage_cache_bypass_total",
			Help: "Total number of responses not stored in the cache",
		},
		[]string{"reason"}, // "error", "status"
	)

	// CacheErrors tracks cache backend errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homepage_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	// CacheEntries tracks the number of entries held in process memory
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "homepage_cache_entries",
			Help: "Current number of entries in the in-memory cache",
		},
		[]string{"backend"}, // "memory"
	)

	// CacheEntryBytes tracks the encoded size of stored entries
	CacheEntryBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homepage_cache_entry_bytes",
			Help:    "Encoded size of stored cache entries",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"backend"}, // "redis"
	)
)
