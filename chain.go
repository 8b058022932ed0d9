package ratelimiter

import (
	"context"
	"fmt"
)

// Chain combines several limiters into one: a request is admitted only if
// every inner limiter admits it, evaluated in the order given. Combining a
// global token bucket with a per-client sliding window is the typical use.
//
// Evaluation short-circuits at the first rejection. Limiters earlier in the
// chain have already counted the attempt by then; they are not rolled back.
// This keeps every check a single atomic take per limiter (which is what
// allows a distributed Store backend), at the price of early limiters seeing
// attempts that a later limiter rejected. Order the chain from the cheapest
// or strictest limiter to the most permissive if that accounting matters.
type Chain struct {
	limiters []Limiter
}

// NewChain creates a Chain from the given limiters. At least one limiter is
// required, and none may be nil.
func NewChain(limiters ...Limiter) (*Chain, error) {
	if len(limiters) == 0 {
		return nil, fmt.Errorf("chain: at least one limiter is required")
	}
	for i, lim := range limiters {
		if lim == nil {
			return nil, fmt.Errorf("chain: limiter at position %d is nil", i)
		}
	}
	return &Chain{limiters: limiters}, nil
}

// Allow consults each inner limiter in order. On rejection it returns that
// limiter's Result; on full admission it returns the Result of the inner
// limiter with the fewest remaining requests, which is the one the caller
// will hit first.
func (c *Chain) Allow(ctx context.Context, key string) (Result, error) {
	var tightest Result
	for i, lim := range c.limiters {
		res, err := lim.Allow(ctx, key)
		if err != nil {
			return Result{Allowed: false}, fmt.Errorf("chain limiter %d: %w", i, err)
		}
		if !res.Allowed {
			return res, nil
		}
		if i == 0 || res.Remaining < tightest.Remaining {
			tightest = res
		}
	}
	return tightest, nil
}
