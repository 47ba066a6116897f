package cache

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitAPIPrefix is the Redis key prefix for per API key buckets.
const rateLimitAPIPrefix = "ratelimit:apikey:"

// minBucketTTL keeps idle buckets around long enough to matter.
const minBucketTTL = time.Minute

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// apiBucketScript is a token bucket kept in a hash. Time comes from the
// Redis server so every API instance shares one clock.
//
// KEYS[1] bucket key
// ARGV[1] refill rate in tokens per millisecond
// ARGV[2] capacity
// ARGV[3] ttl in milliseconds
//
// Returns {allowed, retry_after_ms, remaining, full_in_ms}.
var apiBucketScript = redis.NewScript(`
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local t = redis.call('TIME')
local now = t[1] * 1000 + math.floor(t[2] / 1000)

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1]) or capacity
local ts = tonumber(state[2]) or now
if now > ts then
	tokens = math.min(capacity, tokens + (now - ts) * rate)
end

local allowed = 0
local retry = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
else
	retry = math.ceil((1 - tokens) / rate)
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', now)
redis.call('PEXPIRE', KEYS[1], ttl)

return {allowed, retry, math.floor(tokens), math.ceil((capacity - tokens) / rate)}
`)

// CheckAPIRateLimit consumes one token from the bucket of keyID. The bucket
// holds burst tokens and refills at ratePerMinute. A non-positive rate
// disables limiting. Redis failures are returned to the caller.
func (c *Cache) CheckAPIRateLimit(ctx context.Context, keyID string, ratePerMinute, burst int) (*RateLimitResult, error) {
	now := time.Now()
	if ratePerMinute <= 0 {
		return &RateLimitResult{Allowed: true, Remaining: int64(burst), ResetAt: now}, nil
	}
	if burst <= 0 {
		burst = 1
	}

	perMilli := float64(ratePerMinute) / float64(time.Minute/time.Millisecond)
	ttl := bucketTTL(perMilli, burst)

	res, err := apiBucketScript.Run(ctx, c.client,
		[]string{rateLimitAPIPrefix + keyID},
		perMilli, burst, ttl.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", keyID, err)
	}
	if len(res) != 4 {
		return nil, fmt.Errorf("rate limit %s: unexpected script reply %v", keyID, res)
	}

	return &RateLimitResult{
		Allowed:    res[0] == 1,
		RetryAfter: roundUpToSecond(time.Duration(res[1]) * time.Millisecond),
		Remaining:  res[2],
		ResetAt:    now.Add(time.Duration(res[3]) * time.Millisecond),
	}, nil
}

// bucketTTL is the time an empty bucket needs to refill, with a floor.
func bucketTTL(perMilli float64, burst int) time.Duration {
	fill := time.Duration(math.Ceil(float64(burst)/perMilli)) * time.Millisecond
	if fill < minBucketTTL {
		return minBucketTTL
	}
	return fill
}

// roundUpToSecond rounds d up so Retry-After never advertises zero while limited.
func roundUpToSecond(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return ((d + time.Second - 1) / time.Second) * time.Second
}
