package collector

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles job queries against the accounting database
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter
// qps: queries per second; zero or less disables throttling
func NewRateLimiter(qps float64) *RateLimiter {
	if qps <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	// burst of one keeps queries evenly spaced
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(qps), 1),
	}
}

// Wait blocks until the rate limiter allows a query
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow checks if a query is allowed without blocking
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
