// Package crawl provides the bounded, deduplicated, same-domain breadth-first
// crawler. It coordinates the frontier, the shared rate limiter, fetching,
// extraction and chunking of pages.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/sitevec"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default size of the worker pool.
const DefaultConcurrency = 5

// Crawler orchestrates the crawling of a website.
type Crawler struct {
	Fetcher     sitevec.Fetcher
	Extractor   sitevec.Extractor
	Splitter    sitevec.Splitter
	RateLimiter sitevec.RateLimiter
	Concurrency int
	RetryDelays []time.Duration

	// Logger receives retry messages. Nil disables them.
	Logger *slog.Logger
}

// Result holds the outcome of a crawl operation.
type Result struct {
	RunID  string
	Chunks []*sitevec.Chunk
	Pages  int
	Failed int
	Tokens int
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type  ProgressType
	RunID string
	Pages int
	Depth int
	URL   string
	Error error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// It is called from worker goroutines, one call at a time.
type ProgressFunc func(event ProgressEvent)

// crawlResult holds the outcome of processing a single task.
type crawlResult struct {
	task   sitevec.CrawlTask
	page   *sitevec.PageResult
	chunks []*sitevec.Chunk
	err    error
}

// Crawl fetches pages breadth-first starting from startURL, following only
// links on the same host, and returns the chunks of every fetched page.
//
// No URL deeper than maxDepth is fetched, no URL is fetched twice and at most
// maxPages pages are fetched. Page failures are reported through progress and
// skipped; only an invalid start URL or a canceled context fails the crawl.
func (c *Crawler) Crawl(ctx context.Context, startURL string, maxDepth, maxPages int, progress ProgressFunc) (*Result, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" || (start.Scheme != "http" && start.Scheme != "https") {
		return nil, sitevec.Errorf(sitevec.EINVALID, "invalid start URL %q", startURL)
	}
	if maxDepth < 0 {
		return nil, sitevec.Errorf(sitevec.EINVALID, "max depth must not be negative")
	}

	result := &Result{RunID: uuid.NewString()}

	var mu sync.Mutex
	report := func(event ProgressEvent) {
		if progress == nil {
			return
		}
		event.RunID = result.RunID
		progress(event)
	}

	report(ProgressEvent{Type: ProgressStarted, URL: startURL})

	if maxPages <= 0 {
		report(ProgressEvent{Type: ProgressFinished})
		return result, nil
	}

	frontier := NewFrontier(maxDepth)
	frontier.Push(startURL, 0)

	pages := newPageBudget(maxPages)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	for range concurrency {
		g.Go(func() error {
			for {
				task, ok := frontier.Next(gctx)
				if !ok {
					return gctx.Err()
				}

				res, attempted := c.visit(gctx, task, start, pages)
				if attempted {
					mu.Lock()
					c.record(res, maxDepth, frontier, result, report)
					mu.Unlock()
				}
				if pages.full() {
					frontier.Close()
				}
				frontier.Done()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("crawl %s: %w", startURL, err)
	}

	report(ProgressEvent{Type: ProgressFinished, Pages: result.Pages})

	return result, nil
}

// visit fetches and processes one task if the page budget allows it.
// The bool result is false if the task was dropped without fetching.
func (c *Crawler) visit(ctx context.Context, task sitevec.CrawlTask, start *url.URL, pages *pageBudget) (crawlResult, bool) {
	if !pages.reserve(ctx) {
		return crawlResult{}, false
	}

	res, fetched := c.processTask(ctx, task, start)
	if fetched {
		pages.commit()
	} else {
		pages.release()
	}
	return res, true
}

// processTask fetches, extracts and chunks a single page.
// The bool result reports whether the fetch itself succeeded.
func (c *Crawler) processTask(ctx context.Context, task sitevec.CrawlTask, start *url.URL) (crawlResult, bool) {
	result := crawlResult{task: task}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetchFn := func(ctx context.Context, url string) (string, error) {
		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx); err != nil {
				return "", err
			}
		}
		return c.Fetcher.Fetch(ctx, url)
	}
	var logf LogFunc
	if c.Logger != nil {
		logf = func(format string, args ...any) {
			c.Logger.Info(fmt.Sprintf(format, args...), "depth", task.Depth)
		}
	}
	html, err := FetchWithRetryDelays(ctx, task.URL, fetchFn, logf, delays)
	if err != nil {
		result.err = err
		return result, false
	}

	extracted, err := c.Extractor.Extract(html, task.URL)
	if err != nil {
		result.err = err
		return result, true
	}

	result.page = &sitevec.PageResult{
		URL:   task.URL,
		Text:  extracted.Text,
		Links: SameHostLinks(start, extracted.Links),
	}

	segments, err := c.Splitter.Split(ctx, result.page.Text)
	if err != nil {
		result.err = err
		return result, true
	}
	for i, seg := range segments {
		result.chunks = append(result.chunks, &sitevec.Chunk{
			URL:        result.page.URL,
			ChunkID:    i,
			Content:    seg.Content,
			Links:      result.page.Links,
			TokenCount: seg.TokenCount,
		})
	}

	return result, true
}

// record collects a processed page and feeds its links back into the
// frontier. It runs under the result lock, before the task is marked done.
func (c *Crawler) record(
	res crawlResult,
	maxDepth int,
	frontier *Frontier,
	result *Result,
	report func(ProgressEvent),
) {
	if res.err != nil {
		result.Failed++
		report(ProgressEvent{
			Type:  ProgressFailed,
			Pages: result.Pages,
			Depth: res.task.Depth,
			URL:   res.task.URL,
			Error: res.err,
		})
		return
	}

	result.Pages++
	result.Chunks = append(result.Chunks, res.chunks...)
	for _, chunk := range res.chunks {
		result.Tokens += chunk.TokenCount
	}

	if res.task.Depth < maxDepth {
		for _, link := range res.page.Links {
			frontier.Push(link, res.task.Depth+1)
		}
	}

	report(ProgressEvent{
		Type:  ProgressCompleted,
		Pages: result.Pages,
		Depth: res.task.Depth,
		URL:   res.task.URL,
	})
}

// SameHostLinks returns the links whose host equals the start URL's host,
// preserving order. Unparseable links are dropped.
func SameHostLinks(start *url.URL, links []string) []string {
	filtered := make([]string, 0, len(links))
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		if u.Host != start.Host {
			continue
		}
		filtered = append(filtered, link)
	}
	return filtered
}

// pageBudget caps the number of fetched pages across workers.
// A slot is reserved before fetching, committed on success and released on
// failure, so committed pages never exceed max. While every free slot is held
// by a fetch in flight, reserve waits for one of them to resolve.
type pageBudget struct {
	mu        sync.Mutex
	max       int
	reserved  int
	committed int
	changed   chan struct{}
}

func newPageBudget(n int) *pageBudget {
	return &pageBudget{max: n, changed: make(chan struct{})}
}

// reserve takes a slot. It returns false once max pages are committed or
// ctx is done.
func (b *pageBudget) reserve(ctx context.Context) bool {
	for {
		b.mu.Lock()
		if b.committed >= b.max {
			b.mu.Unlock()
			return false
		}
		if b.reserved < b.max {
			b.reserved++
			b.mu.Unlock()
			return true
		}
		changed := b.changed
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return false
		case <-changed:
		}
	}
}

func (b *pageBudget) release() {
	b.mu.Lock()
	b.reserved--
	b.notify()
	b.mu.Unlock()
}

func (b *pageBudget) commit() {
	b.mu.Lock()
	b.committed++
	b.notify()
	b.mu.Unlock()
}

func (b *pageBudget) full() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.committed >= b.max
}

// notify wakes waiting reservations. Callers hold mu.
func (b *pageBudget) notify() {
	close(b.changed)
	b.changed = make(chan struct{})
}
