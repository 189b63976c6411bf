// Package ratelimit throttles requests per client key over a time window.
package ratelimit

import (
	"context"
	"time"
)

// Result describes one Allow decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
