package testutil

import (
	"sync"
	"time"
)

// SteppedClock returns a clock that advances one second on every call,
// starting at 2024-01-01 12:00:00 UTC.
func SteppedClock() func() time.Time {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var (
		mu sync.Mutex
		n  int
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}
