// Package ratelimit provides a wrapper around golang.org/x/time/rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with per-minute configuration.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerMinute with a burst of 10% of the rate.
// A non-positive rate disables limiting.
func New(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}

	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(perMinute(requestsPerMinute), burst),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// SetLimit updates the rate limit.
func (l *Limiter) SetLimit(requestsPerMinute int) {
	if requestsPerMinute <= 0 {
		l.limiter.SetLimit(rate.Inf)
		return
	}
	l.limiter.SetLimit(perMinute(requestsPerMinute))
}

func perMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}
