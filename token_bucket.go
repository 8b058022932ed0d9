package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// TokenBucketLimiter implements the "Token Bucket" algorithm.
// A bucket starts full with Capacity tokens and gains RefillAmount tokens
// every RefillEvery, capped at Capacity. Each admitted request consumes one
// token. A key that has been idle can therefore burst up to the full
// capacity at once and is then throttled to the steady refill rate — the
// intended behavior that distinguishes this algorithm from the fixed
// window's accidental boundary bursts.
type TokenBucketLimiter struct {
	store        Store
	clock        Clock
	capacity     int64
	refillAmount int64
	refillEvery  time.Duration
}

// NewTokenBucket creates a new limiter based on the Token Bucket algorithm.
//   - store: the storage backend.
//   - capacity: maximum tokens the bucket holds (the burst size).
//   - refillAmount: tokens added per refill tick.
//   - refillEvery: interval between refill ticks.
//
// For example, capacity=20, refillAmount=5, refillEvery=time.Second allows
// an initial burst of 20 requests and then a sustained 5 requests per second.
// Non-positive values for any parameter are configuration errors.
func NewTokenBucket(store Store, capacity, refillAmount int64, refillEvery time.Duration, opts ...LimiterOption) (Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("token bucket: store must not be nil")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("token bucket: capacity must be positive, got %d", capacity)
	}
	if refillAmount <= 0 {
		return nil, fmt.Errorf("token bucket: refill amount must be positive, got %d", refillAmount)
	}
	if refillEvery <= 0 {
		return nil, fmt.Errorf("token bucket: refill interval must be positive, got %s", refillEvery)
	}
	s := newLimiterSettings(opts...)
	return &TokenBucketLimiter{
		store:        store,
		clock:        s.clock,
		capacity:     capacity,
		refillAmount: refillAmount,
		refillEvery:  refillEvery,
	}, nil
}

// Allow refills the key's bucket for the elapsed refill ticks and admits the
// request if a token is available, consuming it.
func (l *TokenBucketLimiter) Allow(ctx context.Context, key string) (Result, error) {
	take, err := l.store.TakeTokenBucket(ctx, key, l.clock.Now(), l.capacity, l.refillAmount, l.refillEvery)
	if err != nil {
		return Result{Allowed: false}, fmt.Errorf("token bucket take: %w", err)
	}
	return Result{
		Allowed:    take.Allowed,
		Limit:      l.capacity,
		Remaining:  take.Remaining,
		ResetAfter: take.ResetAfter,
	}, nil
}
