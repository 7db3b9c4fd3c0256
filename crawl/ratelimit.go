package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/sitevec"
	"golang.org/x/time/rate"
)

var _ sitevec.RateLimiter = (*Limiter)(nil)

// Default request budget: 10 requests per second.
const (
	DefaultRateCalls  = 10
	DefaultRateWindow = time.Second
)

// Limiter admits at most calls requests per rolling window across all callers.
// Requests are spaced evenly (window/calls apart) with a burst of 1, so no
// window of length window ever sees more than calls admissions.
type Limiter struct {
	l *rate.Limiter
}

// NewLimiter creates a Limiter for calls requests per window.
// Non-positive arguments fall back to DefaultRateCalls per DefaultRateWindow.
func NewLimiter(calls int, window time.Duration) *Limiter {
	if calls <= 0 || window <= 0 {
		calls, window = DefaultRateCalls, DefaultRateWindow
	}
	return &Limiter{
		l: rate.NewLimiter(rate.Every(window/time.Duration(calls)), 1),
	}
}

// Wait blocks until a request is permitted.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.l.Wait(ctx)
}
