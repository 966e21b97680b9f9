// Package cache provides a time-based response cache for read endpoints
// with an in-memory or Redis backend.
//
// Entries expire purely by age. Nothing invalidates an entry when the
// underlying data changes, so a cached listing may be stale for up to its
// TTL after a write.
//
// # Basic Usage
//
//	rc := cache.New(cache.NewMemoryStore(), 10*time.Minute)
//
//	key := cache.CacheKey{
//		Route:       "/api/v1/projects",
//		QueryParams: url.Values{"tag": []string{"go"}},
//	}
//
//	entry, hit, err := rc.Fetch(ctx, key, 0, func(ctx context.Context) (*cache.CacheEntry, error) {
//		// produce the response
//	})
//
// Only successful (2xx) results are stored. Errors returned by the
// operation are passed through and never cached.
//
// # HTTP Response Caching
//
//	e.GET("/api/v1/projects", listProjects, rc.CacheFor(600))
//
// A hit replays the stored body, status and content type and sets
// X-Cache: HIT. Only GET requests are cached.
//
// # Backends
//
//   - MemoryStore: process-local map guarded by a RWMutex; RunJanitor drops
//     expired entries in the background
//   - RedisStore: entries are JSON encoded and stored with the remaining TTL
//
// # Metrics
//
//   - homepage_cache_hits_total{backend} - Cache hits
//   - homepage_cache_misses_total{backend} - Cache misses
//   - homepage_cache_stores_total{backend} - Responses stored
//   - homepage_cache_bypass_total{reason} - Responses not stored
//   - homepage_cache_errors_total{operation} - Backend errors
//   - homepage_cache_entries{backend="memory"} - In-memory entry count
//   - homepage_cache_entry_bytes{backend="redis"} - Encoded entry size
package cache
