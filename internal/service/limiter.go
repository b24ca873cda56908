package service

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces enrichment batches; Wait blocks until the next batch may start
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// NewBatchLimiter one batch per delay, the first one immediately. A non-positive delay never waits.
func NewBatchLimiter(delay time.Duration) RateLimiter {
	if delay <= 0 {
		return NoDelay()
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

type noDelay struct{}

func (noDelay) Wait(context.Context) error { return nil }

// NoDelay limiter that never waits
func NoDelay() RateLimiter {
	return noDelay{}
}
