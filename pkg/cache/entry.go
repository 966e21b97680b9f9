package cache

import (
	"time"
)

// CacheEntry is a stored response.
type CacheEntry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ContentType is replayed with the body on a hit
	ContentType string `json:"content_type"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// CachedAt is when the entry was stored
	CachedAt time.Time `json:"cached_at"`

	// Expires is CachedAt plus the TTL the entry was stored with
	Expires time.Time `json:"expires"`
}

// Cacheable reports whether the entry holds a successful response.
func (e *CacheEntry) Cacheable() bool {
	return e != nil && e.StatusCode >= 200 && e.StatusCode < 300
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return e.ExpiredAt(time.Now())
}

// ExpiredAt reports whether the entry is expired at now.
func (e *CacheEntry) ExpiredAt(now time.Time) bool {
	return !now.Before(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

func (e *CacheEntry) clone() *CacheEntry {
	c := *e
	c.Data = append([]byte(nil), e.Data...)
	return &c
}
