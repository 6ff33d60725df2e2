// Package ratelimit spaces out calls to third-party sites and the geocoder so
// the pipeline stays within their usage policies.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter blocks until the caller may issue its next external request.
type Limiter interface {
	Wait(ctx context.Context) error
}

// New returns a limiter that admits one call per interval. The bucket starts
// empty, so even the first call waits a full interval. A non-positive interval
// disables limiting.
func New(interval time.Duration) Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return l
}

// Unlimited returns a limiter that never blocks.
func Unlimited() Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}
