package sitevec

import (
	"context"
	"fmt"
	"net/http"
)

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the URL and returns the response body.
	// Network failures and non-2xx responses return an EFETCH error.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// StatusError reports a response outside the 2xx range.
// It unwraps to an EFETCH error.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return Errorf(EFETCH, "HTTP %d for %s", e.StatusCode, e.URL)
}

// Temporary reports whether repeating the request may succeed:
// rate limiting and server errors are temporary, other statuses are not.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
