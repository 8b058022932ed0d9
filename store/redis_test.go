package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Integration tests for the Redis backend. They run only when REDIS_ADDR is
// set (e.g. REDIS_ADDR=localhost:6379 go test ./store/...).
func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	return NewRedis(client).(*RedisStore)
}

// Keys are namespaced per test run so repeated runs against the same Redis
// instance never see each other's state.
func testKey(t *testing.T) string {
	return fmt.Sprintf("%s-%d", t.Name(), time.Now().UnixNano())
}

func TestRedisStore_FixedWindow(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	key := testKey(t)
	now := time.Now()

	for i := 0; i < 3; i++ {
		res, err := store.TakeFixedWindow(ctx, key, now, 3, time.Minute)
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.Equal(t, int64(2-i), res.Remaining)
	}

	res, err := store.TakeFixedWindow(ctx, key, now, 3, time.Minute)
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Equal(t, int64(0), res.Remaining)
	require.Greater(t, res.ResetAfter, time.Duration(0))
}

func TestRedisStore_SlidingWindow(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	key := testKey(t)
	now := time.Now()

	for i := 0; i < 2; i++ {
		res, err := store.TakeSlidingWindow(ctx, key, now, 2, time.Second)
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}

	res, err := store.TakeSlidingWindow(ctx, key, now, 2, time.Second)
	require.NoError(t, err)
	require.False(t, res.Allowed)

	// Past the window the old entries are gone.
	res, err = store.TakeSlidingWindow(ctx, key, now.Add(1100*time.Millisecond), 2, time.Second)
	require.NoError(t, err)
	require.True(t, res.Allowed)
	require.Equal(t, int64(1), res.Remaining)
}

func TestRedisStore_LeakyBucket(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	key := testKey(t)
	now := time.Now()

	for i := 0; i < 2; i++ {
		res, err := store.TakeLeakyBucket(ctx, key, now, 2, 100*time.Millisecond)
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}

	res, err := store.TakeLeakyBucket(ctx, key, now, 2, 100*time.Millisecond)
	require.NoError(t, err)
	require.False(t, res.Allowed)

	// One full leak interval drains exactly one unit.
	res, err = store.TakeLeakyBucket(ctx, key, now.Add(100*time.Millisecond), 2, 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = store.TakeLeakyBucket(ctx, key, now.Add(100*time.Millisecond), 2, 100*time.Millisecond)
	require.NoError(t, err)
	require.False(t, res.Allowed)
}

func TestRedisStore_TokenBucket(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()
	key := testKey(t)
	now := time.Now()

	// New buckets start full.
	for i := 0; i < 3; i++ {
		res, err := store.TakeTokenBucket(ctx, key, now, 3, 1, 100*time.Millisecond)
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.Equal(t, int64(2-i), res.Remaining)
	}

	res, err := store.TakeTokenBucket(ctx, key, now, 3, 1, 100*time.Millisecond)
	require.NoError(t, err)
	require.False(t, res.Allowed)

	// 250ms at one token per 100ms refills two tokens, not 2.5.
	later := now.Add(250 * time.Millisecond)
	for i := 0; i < 2; i++ {
		res, err = store.TakeTokenBucket(ctx, key, later, 3, 1, 100*time.Millisecond)
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
	res, err = store.TakeTokenBucket(ctx, key, later, 3, 1, 100*time.Millisecond)
	require.NoError(t, err)
	require.False(t, res.Allowed)
}
