package mock

import (
	"context"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of sitevec.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *RateLimiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
