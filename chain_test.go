package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ratelimiter "github.com/quotaguard/go-rate-limiter"
	"github.com/quotaguard/go-rate-limiter/store"
)

// stubLimiter records whether it was consulted and returns a fixed outcome.
type stubLimiter struct {
	allowed bool
	result  ratelimiter.Result
	calls   int
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (ratelimiter.Result, error) {
	s.calls++
	res := s.result
	res.Allowed = s.allowed
	return res, nil
}

func TestChain_AdmitsOnlyWhenAllAdmit(t *testing.T) {
	ctx := context.Background()
	clock := newManualClock()
	memStore := store.NewMemory(ctx, 0)

	bucket, err := ratelimiter.NewTokenBucket(
		memStore, 1, 1, time.Minute, ratelimiter.WithClock(clock))
	require.NoError(t, err)
	window, err := ratelimiter.NewSlidingWindow(
		memStore, 5, time.Minute, ratelimiter.WithClock(clock))
	require.NoError(t, err)

	chain, err := ratelimiter.NewChain(bucket, window)
	require.NoError(t, err)

	res, err := chain.Allow(ctx, "client")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	// The bucket is exhausted, so the chain rejects even though the window
	// still has room.
	res, err = chain.Allow(ctx, "client")
	require.NoError(t, err)
	require.False(t, res.Allowed)
}

func TestChain_ShortCircuitsOnRejection(t *testing.T) {
	first := &stubLimiter{allowed: false}
	second := &stubLimiter{allowed: true}

	chain, err := ratelimiter.NewChain(first, second)
	require.NoError(t, err)

	res, err := chain.Allow(context.Background(), "client")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 0, second.calls, "limiters after a rejection must not be consulted")
}

func TestChain_ReportsTightestRemaining(t *testing.T) {
	loose := &stubLimiter{allowed: true, result: ratelimiter.Result{Limit: 100, Remaining: 80}}
	tight := &stubLimiter{allowed: true, result: ratelimiter.Result{Limit: 10, Remaining: 2}}

	chain, err := ratelimiter.NewChain(loose, tight)
	require.NoError(t, err)

	res, err := chain.Allow(context.Background(), "client")
	require.NoError(t, err)
	require.True(t, res.Allowed)
	require.Equal(t, int64(2), res.Remaining)
	require.Equal(t, int64(10), res.Limit)
}

func TestChain_ConfigValidation(t *testing.T) {
	_, err := ratelimiter.NewChain()
	require.Error(t, err)

	_, err = ratelimiter.NewChain(&stubLimiter{allowed: true}, nil)
	require.Error(t, err)
}
