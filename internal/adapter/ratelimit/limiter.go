package ratelimit

import "context"

// Config holds configuration for a rate limiter.
type Config struct {
	RequestsPerSecond float64 // Token refill rate
	BurstCapacity     int     // Maximum tokens in a bucket
	Enabled           bool
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
