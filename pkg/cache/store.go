package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is a cache backend. Get returns ErrCacheMiss for absent or expired
// entries. Set keeps the entry until its Expires time.
type Store interface {
	Get(ctx context.Context, key CacheKey) (*CacheEntry, error)
	Set(ctx context.Context, key CacheKey, entry *CacheEntry) error
	Delete(ctx context.Context, key CacheKey) error
}

// MemoryStore keeps entries in process memory. Expired entries are dropped
// on read and by Purge.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*CacheEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the stored entry.
func (m *MemoryStore) Get(_ context.Context, key CacheKey) (*CacheEntry, error) {
	k := key.String()

	m.mu.RLock()
	entry, ok := m.entries[k]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}

	if entry.ExpiredAt(m.now()) {
		m.mu.Lock()
		if current, ok := m.entries[k]; ok && current == entry {
			delete(m.entries, k)
		}
		m.mu.Unlock()
		CacheEntries.WithLabelValues("memory").Set(float64(m.Len()))
		return nil, ErrCacheMiss
	}
	return entry.clone(), nil
}

// Set stores a copy of entry, replacing any previous entry for key.
func (m *MemoryStore) Set(_ context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return errors.New("cache entry cannot be nil")
	}
	if entry.ExpiredAt(m.now()) {
		return nil
	}

	m.mu.Lock()
	m.entries[key.String()] = entry.clone()
	size := len(m.entries)
	m.mu.Unlock()

	CacheEntries.WithLabelValues("memory").Set(float64(size))
	return nil
}

// Delete removes the entry for key.
func (m *MemoryStore) Delete(_ context.Context, key CacheKey) error {
	m.mu.Lock()
	delete(m.entries, key.String())
	size := len(m.entries)
	m.mu.Unlock()

	CacheEntries.WithLabelValues("memory").Set(float64(size))
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Purge removes every expired entry and returns how many were removed.
func (m *MemoryStore) Purge() int {
	now := m.now()

	m.mu.Lock()
	removed := 0
	for k, entry := range m.entries {
		if entry.ExpiredAt(now) {
			delete(m.entries, k)
			removed++
		}
	}
	size := len(m.entries)
	m.mu.Unlock()

	CacheEntries.WithLabelValues("memory").Set(float64(size))
	return removed
}

// RunJanitor calls Purge every interval until ctx is cancelled.
func (m *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Purge()
		}
	}
}
