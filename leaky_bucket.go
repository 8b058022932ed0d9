package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// LeakyBucketLimiter implements the "Leaky Bucket" algorithm (as a meter).
// Each admission pours one unit of water into a bucket of the given capacity;
// the bucket drains one unit per LeakEvery of elapsed time regardless of how
// requests arrive. Admission bursts therefore fill the bucket quickly, but
// the drain — and with it the sustained admission rate — stays constant.
type LeakyBucketLimiter struct {
	store     Store
	clock     Clock
	capacity  int64
	leakEvery time.Duration
}

// NewLeakyBucket creates a new limiter based on the Leaky Bucket algorithm.
//   - store: the storage backend.
//   - capacity: maximum water the bucket holds before rejecting.
//   - leakEvery: time to drain a single unit (e.g. 100ms sustains 10 req/s).
//
// A non-positive capacity or leak interval is a configuration error.
func NewLeakyBucket(store Store, capacity int64, leakEvery time.Duration, opts ...LimiterOption) (Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("leaky bucket: store must not be nil")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("leaky bucket: capacity must be positive, got %d", capacity)
	}
	if leakEvery <= 0 {
		return nil, fmt.Errorf("leaky bucket: leak interval must be positive, got %s", leakEvery)
	}
	s := newLimiterSettings(opts...)
	return &LeakyBucketLimiter{
		store:     store,
		clock:     s.clock,
		capacity:  capacity,
		leakEvery: leakEvery,
	}, nil
}

// Allow drains the key's bucket for the time elapsed since the last drain
// and admits the request if the bucket still has room for one more unit.
func (l *LeakyBucketLimiter) Allow(ctx context.Context, key string) (Result, error) {
	take, err := l.store.TakeLeakyBucket(ctx, key, l.clock.Now(), l.capacity, l.leakEvery)
	if err != nil {
		return Result{Allowed: false}, fmt.Errorf("leaky bucket take: %w", err)
	}
	return Result{
		Allowed:    take.Allowed,
		Limit:      l.capacity,
		Remaining:  take.Remaining,
		ResetAfter: take.ResetAfter,
	}, nil
}
