package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is the in-process fallback when no Redis is configured.
// It counts the same fixed windows as RedisLimiter, but per instance.
type MemoryLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	length    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter allows limit requests per window. A window opens with
// the first request for a key.
func NewMemoryLimiter(limit int, length time.Duration) *MemoryLimiter {
	return newMemoryLimiter(limit, length, time.Now)
}

func newMemoryLimiter(limit int, length time.Duration, now func() time.Time) *MemoryLimiter {
	return &MemoryLimiter{
		windows:   make(map[string]*window),
		limit:     limit,
		length:    length,
		lastSweep: now(),
		now:       now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.length)}
		l.windows[key] = w
	}
	w.count++

	res := Result{
		Allowed:   w.count <= l.limit,
		Limit:     l.limit,
		Remaining: max(0, l.limit-w.count),
	}
	if !res.Allowed {
		res.RetryAfter = w.resetAt.Sub(now)
	}
	return res, nil
}

// sweep drops closed windows at most once per window length.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.length {
		return
	}
	for key, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}
