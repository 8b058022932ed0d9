// Package store provides storage backends for github.com/quotaguard/go-rate-limiter.
//
// Currently supported backends:
//   - MemoryStore: in-memory store for single-instance applications
//   - RedisStore: Redis-based store for distributed applications
//
// Stores implement the ratelimiter.Store interface, providing one atomic
// check-and-mutate primitive per algorithm (fixed window, sliding window,
// leaky bucket, token bucket). All primitives receive the caller's "now"
// instead of reading the clock, so a replayed call sequence produces the
// same admission decisions.
//
// Example usage:
//
//	ctx := context.Background()
//	store := store.NewMemory(ctx, time.Minute) // cleanup interval = 1 minute
//	limiter, err := ratelimiter.NewFixedWindow(store, 100, time.Minute)
package store

import (
	"context"
	"sync"
	"time"

	ratelimiter "github.com/quotaguard/go-rate-limiter"
)

// fixedWindowEntry stores the counter and expiration time for a fixed window key.
type fixedWindowEntry struct {
	count     int64
	expiresAt time.Time
}

// slidingWindowEntry stores the ordered timestamp log for a sliding window key.
// Timestamps are appended in increasing order, so pruning is a prefix trim.
type slidingWindowEntry struct {
	log      []time.Time
	lastSeen time.Time
}

// leakyBucketEntry stores the water level of a leaky bucket key.
type leakyBucketEntry struct {
	water     int64
	lastDrain time.Time
	lastSeen  time.Time
}

// tokenBucketEntry stores the token count of a token bucket key.
type tokenBucketEntry struct {
	tokens     int64
	lastRefill time.Time
	lastSeen   time.Time
}

// MemoryStore is an in-memory implementation of ratelimiter.Store.
//
// A single mutex guards all per-key state, making every take an atomic
// check-and-mutate with respect to concurrent request handlers. No lock is
// ever held across a blocking call. Optionally a background cleanup
// goroutine removes stale entries.
//
// Note: MemoryStore is suitable for single-instance applications.
type MemoryStore struct {
	mu             sync.Mutex
	fixedWindows   map[string]fixedWindowEntry
	slidingWindows map[string]slidingWindowEntry
	leakyBuckets   map[string]leakyBucketEntry
	tokenBuckets   map[string]tokenBucketEntry
}

// NewMemory creates a new MemoryStore instance.
//
// ctx: a parent context used to manage the lifecycle of the background
// cleanup goroutine.
// cleanupInterval: interval at which expired entries are removed. Pass 0 to
// disable cleanup.
//
// Example:
//
//	ctx := context.Background()
//	store := store.NewMemory(ctx, time.Minute)
func NewMemory(ctx context.Context, cleanupInterval time.Duration) ratelimiter.Store {
	store := &MemoryStore{
		fixedWindows:   make(map[string]fixedWindowEntry),
		slidingWindows: make(map[string]slidingWindowEntry),
		leakyBuckets:   make(map[string]leakyBucketEntry),
		tokenBuckets:   make(map[string]tokenBucketEntry),
	}

	if cleanupInterval > 0 {
		go store.runCleanup(ctx, cleanupInterval)
	}

	return store
}

// TakeFixedWindow resets the key's counter when its window has elapsed and
// admits the request while the counter is below limit. The counter is only
// incremented on admission, so count <= limit holds at all times.
func (s *MemoryStore) TakeFixedWindow(
	ctx context.Context, key string, now time.Time, limit int64, window time.Duration,
) (ratelimiter.TakeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.fixedWindows[key]
	if !found || now.After(e.expiresAt) {
		e = fixedWindowEntry{count: 0, expiresAt: now.Add(window)}
	}

	allowed := e.count < limit
	if allowed {
		e.count++
	}
	s.fixedWindows[key] = e

	return ratelimiter.TakeResult{
		Allowed:    allowed,
		Remaining:  limit - e.count,
		ResetAfter: e.expiresAt.Sub(now),
	}, nil
}

// TakeSlidingWindow trims timestamps at or before now-window off the front
// of the key's log and admits the request while fewer than limit remain,
// appending now on admission.
func (s *MemoryStore) TakeSlidingWindow(
	ctx context.Context, key string, now time.Time, limit int64, window time.Duration,
) (ratelimiter.TakeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	e := s.slidingWindows[key]

	// In-place prefix trim keeps the backing array from growing unbounded.
	kept := e.log[:0]
	for _, ts := range e.log {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	allowed := int64(len(kept)) < limit
	if allowed {
		kept = append(kept, now)
	}
	e.log = kept
	e.lastSeen = now

	if len(e.log) == 0 {
		delete(s.slidingWindows, key)
	} else {
		s.slidingWindows[key] = e
	}

	resetAfter := window
	if len(e.log) > 0 {
		resetAfter = e.log[0].Add(window).Sub(now)
	}
	return ratelimiter.TakeResult{
		Allowed:    allowed,
		Remaining:  limit - int64(len(e.log)),
		ResetAfter: resetAfter,
	}, nil
}

// TakeLeakyBucket drains floor(elapsed/leakEvery) units since the last drain
// (advancing the drain mark only when at least one unit leaked) and admits
// the request while the water level is below capacity, adding one unit.
func (s *MemoryStore) TakeLeakyBucket(
	ctx context.Context, key string, now time.Time, capacity int64, leakEvery time.Duration,
) (ratelimiter.TakeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.leakyBuckets[key]
	if !found {
		e = leakyBucketEntry{water: 0, lastDrain: now}
	}

	elapsed := now.Sub(e.lastDrain)
	if elapsed < 0 {
		elapsed = 0
	}
	if leaked := int64(elapsed / leakEvery); leaked > 0 {
		e.water -= leaked
		if e.water < 0 {
			e.water = 0
		}
		e.lastDrain = now
	}

	allowed := e.water < capacity
	if allowed {
		e.water++
	}
	e.lastSeen = now
	s.leakyBuckets[key] = e

	var resetAfter time.Duration
	if e.water > 0 {
		resetAfter = e.lastDrain.Add(leakEvery).Sub(now)
	}
	return ratelimiter.TakeResult{
		Allowed:    allowed,
		Remaining:  capacity - e.water,
		ResetAfter: resetAfter,
	}, nil
}

// TakeTokenBucket refills floor(elapsed/refillEvery)*refillAmount tokens
// (capped at capacity, advancing the refill mark only when a full interval
// elapsed) and admits the request while a token is available, consuming it.
// New buckets start full.
func (s *MemoryStore) TakeTokenBucket(
	ctx context.Context, key string, now time.Time, capacity, refillAmount int64, refillEvery time.Duration,
) (ratelimiter.TakeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.tokenBuckets[key]
	if !found {
		e = tokenBucketEntry{tokens: capacity, lastRefill: now}
	}

	elapsed := now.Sub(e.lastRefill)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= refillEvery {
		e.tokens += int64(elapsed/refillEvery) * refillAmount
		if e.tokens > capacity {
			e.tokens = capacity
		}
		e.lastRefill = now
	}

	allowed := e.tokens > 0
	if allowed {
		e.tokens--
	}
	e.lastSeen = now
	s.tokenBuckets[key] = e

	var resetAfter time.Duration
	if e.tokens < capacity {
		resetAfter = e.lastRefill.Add(refillEvery).Sub(now)
	}
	return ratelimiter.TakeResult{
		Allowed:    allowed,
		Remaining:  e.tokens,
		ResetAfter: resetAfter,
	}, nil
}

// runCleanup periodically removes expired or stale entries for all four
// algorithms. Entries are considered stale if they haven't been touched for
// 10 times the cleanup interval.
func (s *MemoryStore) runCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	staleThreshold := interval * 10

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()

			for key, e := range s.fixedWindows {
				if now.After(e.expiresAt) {
					delete(s.fixedWindows, key)
				}
			}
			for key, e := range s.slidingWindows {
				if now.Sub(e.lastSeen) > staleThreshold {
					delete(s.slidingWindows, key)
				}
			}
			for key, e := range s.leakyBuckets {
				if now.Sub(e.lastSeen) > staleThreshold {
					delete(s.leakyBuckets, key)
				}
			}
			for key, e := range s.tokenBuckets {
				if now.Sub(e.lastSeen) > staleThreshold {
					delete(s.tokenBuckets, key)
				}
			}
			s.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}
