package cache

import (
	"context"
	"errors"
	"time"

	"github.com/FlorianTh2/homepageBackend/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultTTL is used when the cache is created without a TTL.
const DefaultTTL = 10 * time.Minute

// ResponseCache stores responses of read operations for a fixed time.
// Entries expire only by age; writes elsewhere never invalidate them.
type ResponseCache struct {
	store   Store
	backend string
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

// New creates a response cache over store. A non-positive ttl uses DefaultTTL.
func New(store Store, ttl time.Duration) *ResponseCache {
	if store == nil {
		panic("cache store cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	backend := "custom"
	switch store.(type) {
	case *MemoryStore:
		backend = "memory"
	case *RedisStore:
		backend = "redis"
	}

	return &ResponseCache{
		store:   store,
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
		logger:  logging.NewLogger("response-cache"),
	}
}

// TTL returns the default entry lifetime.
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// Backend names the store in use.
func (c *ResponseCache) Backend() string {
	return c.backend
}

// Get returns the live entry for key, or ErrCacheMiss.
func (c *ResponseCache) Get(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	entry, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		CacheHits.WithLabelValues(c.backend).Inc()
		return entry, nil
	case errors.Is(err, ErrCacheMiss):
		CacheMisses.WithLabelValues(c.backend).Inc()
		return nil, ErrCacheMiss
	default:
		CacheErrors.WithLabelValues("get").Inc()
		return nil, err
	}
}

// Put stores entry under key for ttl, or for the default TTL when ttl is
// not positive. A later Put for the same key replaces the entry.
func (c *ResponseCache) Put(ctx context.Context, key CacheKey, entry *CacheEntry, ttl time.Duration) error {
	if entry == nil {
		return errors.New("cache entry cannot be nil")
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	stored := *entry
	stored.CachedAt = c.now()
	stored.Expires = stored.CachedAt.Add(ttl)

	if err := c.store.Set(ctx, key, &stored); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return err
	}
	CacheStores.WithLabelValues(c.backend).Inc()
	return nil
}

// Delete removes the entry for key.
func (c *ResponseCache) Delete(ctx context.Context, key CacheKey) error {
	if err := c.store.Delete(ctx, key); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return err
	}
	return nil
}

// Fetch returns the cached entry for key when there is one. Otherwise it
// runs fn and stores its result if the result is a successful response.
// The boolean reports a hit. Errors from fn are returned and nothing is
// stored. Backend failures are logged and fall through to fn.
func (c *ResponseCache) Fetch(ctx context.Context, key CacheKey, ttl time.Duration, fn func(ctx context.Context) (*CacheEntry, error)) (*CacheEntry, bool, error) {
	entry, err := c.Get(ctx, key)
	if err == nil {
		c.logger.Debug().Str("key", key.String()).Msg("Cache hit")
		return entry, true, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache read failed, executing operation")
	}

	fresh, err := fn(ctx)
	if err != nil {
		CacheBypasses.WithLabelValues("error").Inc()
		return nil, false, err
	}
	if !fresh.Cacheable() {
		CacheBypasses.WithLabelValues("status").Inc()
		return fresh, false, nil
	}

	if err := c.Put(ctx, key, fresh, ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache write failed")
	}
	return fresh, false, nil
}
