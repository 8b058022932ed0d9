package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// SlidingWindowLimiter implements the "Sliding Window Log" algorithm.
// The store keeps the timestamp of every admitted request; a request is
// admitted when fewer than Limit timestamps fall within the window ending
// now. This gives exact rolling-window accounting with none of the fixed
// window's boundary bursts, at the cost of one stored timestamp per admitted
// request within the window.
type SlidingWindowLimiter struct {
	store  Store
	clock  Clock
	limit  int64
	window time.Duration
}

// NewSlidingWindow creates a new limiter based on the Sliding Window Log
// algorithm. It requires a Store to persist the timestamp log, a limit for
// the number of requests, and a window duration.
//
// A non-positive limit or window is a configuration error.
func NewSlidingWindow(store Store, limit int64, window time.Duration, opts ...LimiterOption) (Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("sliding window: store must not be nil")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("sliding window: limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("sliding window: window must be positive, got %s", window)
	}
	s := newLimiterSettings(opts...)
	return &SlidingWindowLimiter{
		store:  store,
		clock:  s.clock,
		limit:  limit,
		window: window,
	}, nil
}

// Allow prunes timestamps that have left the window and admits the request
// if the remaining count is below the limit, recording its timestamp.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	take, err := l.store.TakeSlidingWindow(ctx, key, l.clock.Now(), l.limit, l.window)
	if err != nil {
		return Result{Allowed: false}, fmt.Errorf("sliding window take: %w", err)
	}
	return Result{
		Allowed:    take.Allowed,
		Limit:      l.limit,
		Remaining:  take.Remaining,
		ResetAfter: take.ResetAfter,
	}, nil
}
