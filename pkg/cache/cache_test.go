package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock shared by a cache and its store.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(ttl time.Duration) (*ResponseCache, *MemoryStore, *fakeClock) {
	clock := newFakeClock()
	store := NewMemoryStore()
	store.now = clock.Now
	rc := New(store, ttl)
	rc.now = clock.Now
	return rc, store, clock
}

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) Get(context.Context, CacheKey) (*CacheEntry, error) {
	return nil, errors.New("connection refused")
}
func (failingStore) Set(context.Context, CacheKey, *CacheEntry) error {
	return errors.New("connection refused")
}
func (failingStore) Delete(context.Context, CacheKey) error {
	return errors.New("connection refused")
}

func TestNew_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("New should panic with nil store")
		}
	}()
	New(nil, time.Minute)
}

func TestNew_Defaults(t *testing.T) {
	rc := New(NewMemoryStore(), 0)
	if rc.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", rc.TTL(), DefaultTTL)
	}
	if rc.Backend() != "memory" {
		t.Errorf("Backend() = %q, want memory", rc.Backend())
	}
	if New(failingStore{}, time.Second).Backend() != "custom" {
		t.Error("unknown stores should be reported as custom")
	}
}

func TestGetAfterPut(t *testing.T) {
	rc, _, _ := newTestCache(10 * time.Minute)
	ctx := context.Background()
	key := CacheKey{Route: "/api/v1/projects"}

	if _, err := rc.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss on empty cache, got %v", err)
	}

	entry := &CacheEntry{Data: []byte(`{"data":[]}`), ContentType: "application/json", StatusCode: 200}
	if err := rc.Put(ctx, key, entry, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := rc.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Data) != `{"data":[]}` || got.StatusCode != 200 || got.ContentType != "application/json" {
		t.Errorf("unexpected entry %+v", got)
	}
}

func TestEntriesExpireByAge(t *testing.T) {
	rc, store, clock := newTestCache(600 * time.Second)
	ctx := context.Background()
	key := CacheKey{Route: "/api/v1/tags"}

	if err := rc.Put(ctx, key, &CacheEntry{Data: []byte("x"), StatusCode: 200}, 0); err != nil {
		t.Fatalf("Put: %v", err)
	}

	clock.Advance(599 * time.Second)
	if _, err := rc.Get(ctx, key); err != nil {
		t.Fatalf("entry should be live before TTL elapses: %v", err)
	}

	clock.Advance(time.Second)
	if _, err := rc.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after TTL, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected expired entry to be dropped, %d left", store.Len())
	}
}

func TestPutLastWriteWins(t *testing.T) {
	rc, _, _ := newTestCache(time.Minute)
	ctx := context.Background()
	key := CacheKey{Route: "/api/v1/tags"}

	_ = rc.Put(ctx, key, &CacheEntry{Data: []byte("first"), StatusCode: 200}, 0)
	_ = rc.Put(ctx, key, &CacheEntry{Data: []byte("second"), StatusCode: 200}, 0)

	got, err := rc.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Data) != "second" {
		t.Errorf("Data = %q, want second", got.Data)
	}
}

func TestFetch(t *testing.T) {
	rc, _, clock := newTestCache(600 * time.Second)
	ctx := context.Background()
	key := CacheKey{Route: "/api/v1/projects"}

	calls := 0
	fn := func(context.Context) (*CacheEntry, error) {
		calls++
		return &CacheEntry{Data: []byte("page"), StatusCode: 200}, nil
	}

	for i := 0; i < 3; i++ {
		entry, hit, err := rc.Fetch(ctx, key, 0, fn)
		if err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
		if string(entry.Data) != "page" {
			t.Errorf("Fetch #%d data = %q", i, entry.Data)
		}
		if hit != (i > 0) {
			t.Errorf("Fetch #%d hit = %v", i, hit)
		}
	}
	if calls != 1 {
		t.Errorf("operation ran %d times within TTL, want 1", calls)
	}

	clock.Advance(601 * time.Second)
	if _, hit, _ := rc.Fetch(ctx, key, 0, fn); hit {
		t.Error("expected miss after expiry")
	}
	if calls != 2 {
		t.Errorf("operation should re-execute after expiry, ran %d times", calls)
	}
}

func TestFetchDoesNotStoreFailures(t *testing.T) {
	rc, store, _ := newTestCache(time.Minute)
	ctx := context.Background()

	boom := errors.New("storage unavailable")
	_, _, err := rc.Fetch(ctx, CacheKey{Route: "/a"}, 0, func(context.Context) (*CacheEntry, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected operation error, got %v", err)
	}

	entry, hit, err := rc.Fetch(ctx, CacheKey{Route: "/b"}, 0, func(context.Context) (*CacheEntry, error) {
		return &CacheEntry{Data: []byte("missing"), StatusCode: 404}, nil
	})
	if err != nil || hit || entry.StatusCode != 404 {
		t.Fatalf("Fetch = %+v, %v, %v", entry, hit, err)
	}

	if store.Len() != 0 {
		t.Errorf("failed responses must not be stored, got %d entries", store.Len())
	}
}

func TestFetchFallsThroughOnBackendError(t *testing.T) {
	rc := New(failingStore{}, time.Minute)

	entry, hit, err := rc.Fetch(context.Background(), CacheKey{Route: "/a"}, 0, func(context.Context) (*CacheEntry, error) {
		return &CacheEntry{Data: []byte("ok"), StatusCode: 200}, nil
	})
	if err != nil {
		t.Fatalf("backend errors must not fail the request: %v", err)
	}
	if hit || string(entry.Data) != "ok" {
		t.Errorf("Fetch = %+v, hit=%v", entry, hit)
	}
}

func TestMemoryStorePurge(t *testing.T) {
	rc, store, clock := newTestCache(time.Minute)
	ctx := context.Background()

	_ = rc.Put(ctx, CacheKey{Route: "/short"}, &CacheEntry{StatusCode: 200}, 10*time.Second)
	_ = rc.Put(ctx, CacheKey{Route: "/long"}, &CacheEntry{StatusCode: 200}, time.Hour)

	clock.Advance(time.Minute)
	if removed := store.Purge(); removed != 1 {
		t.Errorf("Purge() removed %d, want 1", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	key := CacheKey{Route: "/a"}

	entry := &CacheEntry{Data: []byte("abc"), StatusCode: 200, Expires: time.Now().Add(time.Hour)}
	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set: %v", err)
	}
	entry.Data[0] = 'x'

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Data) != "abc" {
		t.Errorf("stored entry changed through caller's slice: %q", got.Data)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	rc := New(NewMemoryStore(), time.Minute)
	ctx := context.Background()
	key := CacheKey{Route: "/api/v1/projects"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = rc.Put(ctx, key, &CacheEntry{Data: []byte("v"), StatusCode: 200}, 0)
		}()
		go func() {
			defer wg.Done()
			_, _ = rc.Get(ctx, key)
		}()
	}
	wg.Wait()

	if _, err := rc.Get(ctx, key); err != nil {
		t.Errorf("expected entry after concurrent writes: %v", err)
	}
}

func TestRunJanitorStops(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}
