package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// minIdleTTL bounds how often idle buckets are swept.
const minIdleTTL = time.Minute

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter implements Limiter with per-key token buckets held in process memory.
// A bucket idle long enough to have refilled is dropped, since a fresh one behaves the same.
type LocalLimiter struct {
	config    Config
	log       *zap.Logger
	mu        sync.Mutex
	buckets   map[string]*localBucket
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewLocalLimiter creates an in-memory rate limiter.
func NewLocalLimiter(config Config, log *zap.Logger) *LocalLimiter {
	ttl := minIdleTTL
	if config.RequestsPerSecond > 0 {
		refill := time.Duration(float64(config.BurstCapacity) / config.RequestsPerSecond * float64(time.Second))
		if refill > ttl {
			ttl = refill
		}
	}

	return &LocalLimiter{
		config:  config,
		log:     log,
		buckets: make(map[string]*localBucket),
		idleTTL: ttl,
		now:     time.Now,
	}
}

// Allow consumes one token from the bucket for key.
func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	if !l.config.Enabled {
		return true, nil
	}

	l.mu.Lock()
	now := l.now()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.BurstCapacity)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed {
		l.log.Warn("rate limit exceeded", zap.String("key", key))
		return false, nil
	}
	return true, nil
}

// Len returns the number of live buckets.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops idle buckets at most once per idleTTL. Callers hold l.mu.
func (l *LocalLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
