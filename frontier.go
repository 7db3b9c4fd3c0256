package sitevec

import "context"

// CrawlTask is a URL waiting to be fetched at a given link depth from the start URL.
type CrawlTask struct {
	URL   string
	Depth int
}

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push enqueues a URL at the given depth.
	// Returns false if the URL has already been seen or the depth exceeds the limit.
	Push(url string, depth int) bool

	// Pop returns the next task in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (CrawlTask, bool)

	// Done marks a previously popped task as finished.
	Done()

	// Exhausted returns true when the queue is empty and no task is in flight.
	Exhausted() bool
}

// RateLimiter caps the outbound request rate shared by all crawl workers.
type RateLimiter interface {
	// Wait blocks until a request is permitted.
	// Returns an error only if the context is canceled.
	Wait(ctx context.Context) error
}
