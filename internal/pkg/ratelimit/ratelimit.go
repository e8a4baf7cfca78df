// Package ratelimit implements a Redis-backed token bucket.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Capacity       int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// Result is the outcome of a single Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// tokenBucket refills one token per interval up to capacity and takes one per call.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 then
	local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

type redisLimiter struct {
	client redis.Scripter
	cfg    Config
	now    func() time.Time
}

// NewRedisLimiter builds a Limiter over client, normalising cfg.
func NewRedisLimiter(client redis.Scripter, cfg Config) Limiter {
	return &redisLimiter{client: client, cfg: normalize(cfg), now: time.Now}
}

func normalize(cfg Config) Config {
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "rl"
	}
	return cfg
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	vals, err := tokenBucket.Run(ctx, l.client, []string{l.cfg.Prefix + ":" + key},
		l.now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL/time.Second),
	).Result()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	return parseResult(vals, l.cfg.Capacity)
}

func parseResult(vals interface{}, capacity int) (Result, error) {
	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Result{}, fmt.Errorf("unexpected rate limit result %#v", vals)
	}
	return Result{
		Allowed:    asInt64(arr[0]) == 1,
		Limit:      capacity,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
