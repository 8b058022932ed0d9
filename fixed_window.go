package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// FixedWindowLimiter implements the "Fixed Window" rate-limiting algorithm.
// This algorithm limits the number of requests (Limit) within a specific time
// frame (Window). It's simple and memory-efficient, but a client can burst up
// to twice the limit across a window boundary: the tail of one window and the
// head of the next each admit a full quota. That boundary behavior is part of
// the algorithm's contract, not a defect; use SlidingWindowLimiter when exact
// rolling accounting is needed.
type FixedWindowLimiter struct {
	store  Store
	clock  Clock
	limit  int64
	window time.Duration
}

// NewFixedWindow creates a new limiter based on the Fixed Window algorithm.
// It requires a Store to persist the counts, a limit for the number of
// requests, and a window duration.
//
// A non-positive limit or window is a configuration error and is reported
// immediately rather than surfacing later as silently wrong throttling.
func NewFixedWindow(store Store, limit int64, window time.Duration, opts ...LimiterOption) (Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("fixed window: store must not be nil")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("fixed window: limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("fixed window: window must be positive, got %s", window)
	}
	s := newLimiterSettings(opts...)
	return &FixedWindowLimiter{
		store:  store,
		clock:  s.clock,
		limit:  limit,
		window: window,
	}, nil
}

// Allow checks if the request count for the given key is within the defined
// limit, incrementing the counter only when the request is admitted.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	take, err := l.store.TakeFixedWindow(ctx, key, l.clock.Now(), l.limit, l.window)
	if err != nil {
		return Result{Allowed: false}, fmt.Errorf("fixed window take: %w", err)
	}
	return Result{
		Allowed:    take.Allowed,
		Limit:      l.limit,
		Remaining:  take.Remaining,
		ResetAfter: take.ResetAfter,
	}, nil
}
