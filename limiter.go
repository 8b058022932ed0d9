package ratelimiter

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
// It provides the necessary data to populate standard rate-limiting HTTP headers.
type Result struct {
	// Allowed indicates whether the request is permitted.
	Allowed bool
	// Limit is the total number of requests allowed in the current window
	// (or the bucket capacity for the bucket-based algorithms).
	Limit int64
	// Remaining is the number of requests left before the limiter starts rejecting.
	Remaining int64
	// ResetAfter is the duration after which the limiter will admit again
	// (zero when the limiter is idle).
	ResetAfter time.Duration
}

// Limiter defines the interface for rate-limiting algorithms.
// It is the primary interface that middleware and users will interact with.
//
// Rejection is a normal outcome, not a failure: a rejected request yields
// Result.Allowed == false and a nil error. A non-nil error means the check
// itself could not be performed (e.g., the backing store is unreachable).
type Limiter interface {
	// Allow checks if a request is permitted for a given key.
	// The key identifies the protected resource or client; a fixed key
	// turns any limiter into a single global limiter.
	Allow(ctx context.Context, key string) (Result, error)
}

// TakeResult is the outcome of a single atomic take against a Store.
type TakeResult struct {
	// Allowed reports whether the take succeeded.
	Allowed bool
	// Remaining is the capacity left for the key after this take.
	Remaining int64
	// ResetAfter is the duration until the key's state next relaxes
	// (window end, oldest log entry expiry, next drain or refill tick).
	ResetAfter time.Duration
}

// Store defines the interface for storing rate-limiting data.
// This abstraction allows for interchangeable backend implementations
// (e.g., in-memory, Redis).
//
// Each primitive performs the complete check-and-mutate sequence for one
// algorithm atomically with respect to concurrent callers: two callers must
// never both be admitted on the strength of the same free slot. The caller's
// notion of "now" is passed in explicitly so that backends never read the
// system clock themselves; this keeps admission decisions replayable.
type Store interface {
	// TakeFixedWindow admits at most limit requests per fixed window.
	// The counter resets when the window containing the previous requests
	// has elapsed.
	TakeFixedWindow(ctx context.Context, key string, now time.Time, limit int64, window time.Duration) (TakeResult, error)

	// TakeSlidingWindow admits at most limit requests within the rolling
	// window ending at now. Timestamps at or before now-window are
	// discarded; the admitted request's timestamp is recorded.
	TakeSlidingWindow(ctx context.Context, key string, now time.Time, limit int64, window time.Duration) (TakeResult, error)

	// TakeLeakyBucket admits while the bucket's water level is below
	// capacity. One unit of water drains per leakEvery of elapsed time,
	// independent of traffic; each admission adds one unit.
	TakeLeakyBucket(ctx context.Context, key string, now time.Time, capacity int64, leakEvery time.Duration) (TakeResult, error)

	// TakeTokenBucket admits while tokens are available, consuming one per
	// admission. Every refillEvery of elapsed time adds refillAmount tokens
	// up to capacity. New buckets start full, so idle keys can burst.
	TakeTokenBucket(ctx context.Context, key string, now time.Time, capacity, refillAmount int64, refillEvery time.Duration) (TakeResult, error)
}
