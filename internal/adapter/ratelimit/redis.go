package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// keyPrefix namespaces token bucket keys in Redis.
const keyPrefix = "ratelimit:tb:"

// tokenBucketScript implements a token bucket atomically.
// Bucket layout: {last_refill, tokens}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local requested = tonumber(ARGV[4])

	local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
	local last_refill = tonumber(bucket[1]) or now
	local tokens = tonumber(bucket[2]) or capacity

	local elapsed = math.max(0, now - last_refill)
	tokens = math.min(capacity, tokens + elapsed * rate)

	local allowed = 0
	if tokens >= requested then
		tokens = tokens - requested
		allowed = 1
	end

	redis.call('HSET', key, 'last_refill', now, 'tokens', tokens)
	redis.call('EXPIRE', key, 60)
	return allowed
`)

// RedisLimiter implements Limiter with a token bucket stored in Redis, so limits
// hold across service instances.
type RedisLimiter struct {
	client *redis.Client
	config Config
	log    *zap.Logger
	now    func() time.Time
}

// NewRedisLimiter creates a new Redis-backed rate limiter.
func NewRedisLimiter(client *redis.Client, config Config, log *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
}

// Allow consumes one token from the bucket for key.
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !rl.config.Enabled {
		return true, nil
	}

	now := float64(rl.now().UnixMilli()) / 1000

	allowed, err := tokenBucketScript.Run(ctx, rl.client, []string{keyPrefix + key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		now,
		1,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}

	if allowed == 0 {
		rl.log.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Float64("limit", rl.config.RequestsPerSecond),
			zap.Int("burst", rl.config.BurstCapacity),
		)
		return false, nil
	}

	return true, nil
}
