package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/sitevec"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// BackoffDelays returns n exponentially growing delays starting at initial.
func BackoffDelays(n int, initial time.Duration) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	d := initial
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// FetchWithRetryDelays fetches url, retrying after each delay in turn.
// An empty delays slice means a single attempt. Permanent HTTP statuses are
// not retried. The error of the last attempt is returned, or the context
// error if ctx ends while waiting.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	html, err := fetch(ctx, url)
	for i, delay := range delays {
		if err == nil {
			return html, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !retryable(err) {
			return "", err
		}
		if logger != nil {
			logger("retry %s (attempt %d): %v", url, i+2, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}

		html, err = fetch(ctx, url)
	}
	if err != nil {
		return "", err
	}
	return html, nil
}

// retryable reports whether a failed fetch is worth repeating.
func retryable(err error) bool {
	var statusErr *sitevec.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}
