// Package ratelimit paces submission starts so bulk runs do not trip
// the target's rate limiting, the presumed cause of unconfirmed
// submissions.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter bounds submissions per second across all workers.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing rps submission starts per second.
// rps <= 0 returns nil, which callers treat as unpaced.
func New(rps int) *Limiter {
	if rps <= 0 {
		return nil
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), rps)}
}

// Wait blocks until the next submission may start or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
