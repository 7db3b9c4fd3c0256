package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/bloom"
)

// Compile-time interface verification.
var _ sitevec.URLFrontier = (*Frontier)(nil)

// Frontier sizing for the Bloom prefilter.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Frontier is an in-memory FIFO URL frontier with race-free deduplication.
// It tracks tasks handed to workers so that an empty queue with work still
// in flight is not mistaken for the end of the crawl.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu       sync.Mutex
	maxDepth int
	filter   *bloom.Filter
	seen     map[string]struct{}
	queue    []sitevec.CrawlTask
	inflight int
	closed   bool

	// wake is closed and replaced whenever the state changes.
	wake chan struct{}
}

// NewFrontier creates an empty frontier that rejects tasks deeper than maxDepth.
func NewFrontier(maxDepth int) *Frontier {
	return &Frontier{
		maxDepth: maxDepth,
		filter:   bloom.NewFilter(frontierExpectedURLs, frontierFalsePositiveRate),
		seen:     make(map[string]struct{}),
		wake:     make(chan struct{}),
	}
}

// Push enqueues url at depth.
// Returns false if the URL has already been seen, the depth exceeds the
// limit, or the frontier is closed. URL fragments are stripped before
// deduplication - URLs differing only by fragment are considered duplicates.
func (f *Frontier) Push(rawURL string, depth int) bool {
	if depth < 0 || depth > f.maxDepth {
		return false
	}
	url := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	// A negative from the Bloom filter is definitive; only a positive needs
	// the exact set to rule out a false positive.
	if f.filter.TestAndAdd(url) {
		if _, ok := f.seen[url]; ok {
			return false
		}
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, sitevec.CrawlTask{URL: url, Depth: depth})
	f.notify()
	return true
}

// Pop removes and returns the next task without blocking.
// The bool result is false if the queue is empty or the frontier is closed.
// Every successful Pop must be followed by a call to Done.
func (f *Frontier) Pop() (sitevec.CrawlTask, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pop()
}

// Next blocks until a task is available and returns it.
// The bool result is false once the frontier is exhausted or closed,
// or when ctx is canceled.
func (f *Frontier) Next(ctx context.Context) (sitevec.CrawlTask, bool) {
	for {
		f.mu.Lock()
		if task, ok := f.pop(); ok {
			f.mu.Unlock()
			return task, true
		}
		if f.closed || f.inflight == 0 {
			f.mu.Unlock()
			return sitevec.CrawlTask{}, false
		}
		wake := f.wake
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return sitevec.CrawlTask{}, false
		case <-wake:
		}
	}
}

// Done marks one popped task as finished.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inflight > 0 {
		f.inflight--
	}
	f.notify()
}

// Close stops delivery of queued tasks. Tasks already popped may still
// complete, but Pop and Next return false from now on.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.queue = nil
	f.notify()
}

// Exhausted returns true when the queue is empty and no task is in flight.
func (f *Frontier) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) == 0 && f.inflight == 0
}

// Len returns the number of queued tasks.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been queued at any point.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	url := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.filter.MaybeSeen(url) {
		return false
	}
	_, ok := f.seen[url]
	return ok
}

// pop must be called with f.mu held.
func (f *Frontier) pop() (sitevec.CrawlTask, bool) {
	if f.closed || len(f.queue) == 0 {
		return sitevec.CrawlTask{}, false
	}
	task := f.queue[0]
	f.queue[0] = sitevec.CrawlTask{}
	f.queue = f.queue[1:]
	f.inflight++
	return task, true
}

// notify must be called with f.mu held.
func (f *Frontier) notify() {
	close(f.wake)
	f.wake = make(chan struct{})
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
