package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	ratelimiter "github.com/quotaguard/go-rate-limiter"
)

// RedisStore implements the ratelimiter.Store interface using Redis as the
// backend. It is suitable for distributed systems where multiple application
// instances need to share a common rate-limiting state. Each algorithm is a
// single Lua script, so every take is atomic on the Redis side.
//
// Timestamps are exchanged with the scripts in milliseconds. The caller's
// "now" is passed through, so hosts with skewed clocks degrade accuracy but
// never corrupt state: elapsed time is clamped at zero inside the scripts.
type RedisStore struct {
	client              redis.Scripter
	fixedWindowScript   *redis.Script
	slidingWindowScript *redis.Script
	leakyBucketScript   *redis.Script
	tokenBucketScript   *redis.Script
}

// Lua scripts, one per algorithm. Each performs the full
// check-and-mutate and returns {allowed, remaining, reset_ms}.
const (
	// Fixed window: a plain counter with a TTL equal to the window.
	// The increment is conditional on the limit, so the stored count never
	// exceeds it.
	fixedWindowLua = `
		local key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local window_ms = tonumber(ARGV[2])

		local count = tonumber(redis.call("GET", key) or "0")
		local allowed = 0
		if count < limit then
			count = redis.call("INCR", key)
			if count == 1 then
				redis.call("PEXPIRE", key, window_ms)
			end
			allowed = 1
		end

		local reset_ms = redis.call("PTTL", key)
		if reset_ms < 0 then
			reset_ms = window_ms
		end
		return {allowed, limit - count, reset_ms}
	`

	// Sliding window: a sorted set scored by timestamp. Entries at or
	// before the cutoff are removed, then the request is admitted if the
	// remaining cardinality is below the limit. A per-key sequence makes
	// members unique when two requests share a millisecond.
	slidingWindowLua = `
		local key = KEYS[1]
		local seq_key = KEYS[2]
		local limit = tonumber(ARGV[1])
		local window_ms = tonumber(ARGV[2])
		local now_ms = tonumber(ARGV[3])

		redis.call("ZREMRANGEBYSCORE", key, "-inf", now_ms - window_ms)
		local count = redis.call("ZCARD", key)

		local allowed = 0
		if count < limit then
			local seq = redis.call("INCR", seq_key)
			redis.call("ZADD", key, now_ms, now_ms .. "-" .. seq)
			redis.call("PEXPIRE", key, window_ms)
			redis.call("PEXPIRE", seq_key, window_ms)
			allowed = 1
			count = count + 1
		end

		local reset_ms = window_ms
		local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
		if #oldest > 0 then
			reset_ms = tonumber(oldest[2]) + window_ms - now_ms
		end
		return {allowed, limit - count, reset_ms}
	`

	// Leaky bucket: a hash holding the water level and the last drain
	// time. Whole units leak per elapsed leak interval; the drain mark
	// only advances when at least one unit leaked.
	leakyBucketLua = `
		local key = KEYS[1]
		local capacity = tonumber(ARGV[1])
		local leak_ms = tonumber(ARGV[2])
		local now_ms = tonumber(ARGV[3])

		local water = 0
		local last_drain = now_ms
		local state = redis.call("HMGET", key, "water", "last_drain")
		if state[1] then
			water = tonumber(state[1])
			last_drain = tonumber(state[2])
		end

		local elapsed = now_ms - last_drain
		if elapsed < 0 then
			elapsed = 0
		end
		local leaked = math.floor(elapsed / leak_ms)
		if leaked > 0 then
			water = water - leaked
			if water < 0 then
				water = 0
			end
			last_drain = now_ms
		end

		local allowed = 0
		if water < capacity then
			water = water + 1
			allowed = 1
		end

		redis.call("HSET", key, "water", water, "last_drain", last_drain)
		redis.call("PEXPIRE", key, leak_ms * (capacity + 1))

		local reset_ms = 0
		if water > 0 then
			reset_ms = last_drain + leak_ms - now_ms
		end
		return {allowed, capacity - water, reset_ms}
	`

	// Token bucket: a hash holding the token count and the last refill
	// time. Whole refill intervals grant refill_amount tokens each, capped
	// at capacity; new buckets start full.
	tokenBucketLua = `
		local key = KEYS[1]
		local capacity = tonumber(ARGV[1])
		local refill_amount = tonumber(ARGV[2])
		local refill_ms = tonumber(ARGV[3])
		local now_ms = tonumber(ARGV[4])

		local tokens = capacity
		local last_refill = now_ms
		local state = redis.call("HMGET", key, "tokens", "last_refill")
		if state[1] then
			tokens = tonumber(state[1])
			last_refill = tonumber(state[2])
		end

		local elapsed = now_ms - last_refill
		if elapsed < 0 then
			elapsed = 0
		end
		if elapsed >= refill_ms then
			tokens = tokens + math.floor(elapsed / refill_ms) * refill_amount
			if tokens > capacity then
				tokens = capacity
			end
			last_refill = now_ms
		end

		local allowed = 0
		if tokens > 0 then
			tokens = tokens - 1
			allowed = 1
		end

		redis.call("HSET", key, "tokens", tokens, "last_refill", last_refill)
		local ttl_ms = refill_ms * math.ceil(capacity / refill_amount) * 2
		if ttl_ms < 10000 then
			ttl_ms = 10000
		end
		redis.call("PEXPIRE", key, ttl_ms)

		local reset_ms = 0
		if tokens < capacity then
			reset_ms = last_refill + refill_ms - now_ms
		end
		return {allowed, tokens, reset_ms}
	`
)

// NewRedis creates a new instance of RedisStore.
// It pre-compiles the Lua scripts for all four algorithms so that each take
// is a single EVALSHA round trip. Any go-redis client type (single node,
// cluster, ring) satisfies the Scripter interface.
func NewRedis(client redis.Scripter) ratelimiter.Store {
	return &RedisStore{
		client:              client,
		fixedWindowScript:   redis.NewScript(fixedWindowLua),
		slidingWindowScript: redis.NewScript(slidingWindowLua),
		leakyBucketScript:   redis.NewScript(leakyBucketLua),
		tokenBucketScript:   redis.NewScript(tokenBucketLua),
	}
}

// TakeFixedWindow runs the fixed window script for the key.
func (s *RedisStore) TakeFixedWindow(
	ctx context.Context, key string, now time.Time, limit int64, window time.Duration,
) (ratelimiter.TakeResult, error) {
	res, err := s.fixedWindowScript.Run(ctx, s.client,
		[]string{"ratelimit:fw:" + key},
		limit, window.Milliseconds(),
	).Result()
	if err != nil {
		return ratelimiter.TakeResult{}, fmt.Errorf("run fixed window script: %w", err)
	}
	return parseTakeReply(res)
}

// TakeSlidingWindow runs the sliding window script for the key.
func (s *RedisStore) TakeSlidingWindow(
	ctx context.Context, key string, now time.Time, limit int64, window time.Duration,
) (ratelimiter.TakeResult, error) {
	res, err := s.slidingWindowScript.Run(ctx, s.client,
		[]string{"ratelimit:sw:" + key, "ratelimit:sw:" + key + ":seq"},
		limit, window.Milliseconds(), now.UnixMilli(),
	).Result()
	if err != nil {
		return ratelimiter.TakeResult{}, fmt.Errorf("run sliding window script: %w", err)
	}
	return parseTakeReply(res)
}

// TakeLeakyBucket runs the leaky bucket script for the key.
func (s *RedisStore) TakeLeakyBucket(
	ctx context.Context, key string, now time.Time, capacity int64, leakEvery time.Duration,
) (ratelimiter.TakeResult, error) {
	res, err := s.leakyBucketScript.Run(ctx, s.client,
		[]string{"ratelimit:lb:" + key},
		capacity, leakEvery.Milliseconds(), now.UnixMilli(),
	).Result()
	if err != nil {
		return ratelimiter.TakeResult{}, fmt.Errorf("run leaky bucket script: %w", err)
	}
	return parseTakeReply(res)
}

// TakeTokenBucket runs the token bucket script for the key.
func (s *RedisStore) TakeTokenBucket(
	ctx context.Context, key string, now time.Time, capacity, refillAmount int64, refillEvery time.Duration,
) (ratelimiter.TakeResult, error) {
	res, err := s.tokenBucketScript.Run(ctx, s.client,
		[]string{"ratelimit:tb:" + key},
		capacity, refillAmount, refillEvery.Milliseconds(), now.UnixMilli(),
	).Result()
	if err != nil {
		return ratelimiter.TakeResult{}, fmt.Errorf("run token bucket script: %w", err)
	}
	return parseTakeReply(res)
}

// parseTakeReply converts a {allowed, remaining, reset_ms} script reply.
func parseTakeReply(reply interface{}) (ratelimiter.TakeResult, error) {
	arr, ok := reply.([]interface{})
	if !ok || len(arr) < 3 {
		return ratelimiter.TakeResult{}, fmt.Errorf("unexpected script reply %v", reply)
	}
	allowed, ok := arr[0].(int64)
	if !ok {
		return ratelimiter.TakeResult{}, fmt.Errorf("unexpected allowed value %v", arr[0])
	}
	remaining, ok := arr[1].(int64)
	if !ok {
		return ratelimiter.TakeResult{}, fmt.Errorf("unexpected remaining value %v", arr[1])
	}
	resetMs, ok := arr[2].(int64)
	if !ok {
		return ratelimiter.TakeResult{}, fmt.Errorf("unexpected reset value %v", arr[2])
	}
	if remaining < 0 {
		remaining = 0
	}
	return ratelimiter.TakeResult{
		Allowed:    allowed == 1,
		Remaining:  remaining,
		ResetAfter: time.Duration(resetMs) * time.Millisecond,
	}, nil
}
