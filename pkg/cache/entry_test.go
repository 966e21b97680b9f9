package cache

import (
	"net/http"
	"testing"
	"time"
)

func TestCacheEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "expired entry",
			expires: time.Now().Add(-1 * time.Hour),
			want:    true,
		},
		{
			name:    "valid entry",
			expires: time.Now().Add(1 * time.Hour),
			want:    false,
		},
		{
			name:    "just expired",
			expires: time.Now().Add(-1 * time.Second),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry{
				Expires: tt.expires,
			}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheEntry_ExpiredAtBoundary(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entry := &CacheEntry{Expires: now}

	if entry.ExpiredAt(now.Add(-time.Nanosecond)) {
		t.Error("entry should be live before Expires")
	}
	if !entry.ExpiredAt(now) {
		t.Error("entry should be expired at Expires")
	}
}

func TestCacheEntry_TTL(t *testing.T) {
	entry := &CacheEntry{Expires: time.Now().Add(-time.Minute)}
	if ttl := entry.TTL(); ttl != 0 {
		t.Errorf("TTL() of expired entry = %v, want 0", ttl)
	}

	entry = &CacheEntry{Expires: time.Now().Add(time.Hour)}
	if ttl := entry.TTL(); ttl <= 59*time.Minute || ttl > time.Hour {
		t.Errorf("TTL() = %v, want about 1h", ttl)
	}
}

func TestCacheEntry_Cacheable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusOK, true},
		{http.StatusCreated, true},
		{http.StatusNoContent, true},
		{http.StatusNotFound, false},
		{http.StatusServiceUnavailable, false},
		{0, false},
	}
	for _, tt := range tests {
		entry := &CacheEntry{StatusCode: tt.status}
		if got := entry.Cacheable(); got != tt.want {
			t.Errorf("Cacheable() for %d = %v, want %v", tt.status, got, tt.want)
		}
	}

	var nilEntry *CacheEntry
	if nilEntry.Cacheable() {
		t.Error("nil entry must not be cacheable")
	}
}
