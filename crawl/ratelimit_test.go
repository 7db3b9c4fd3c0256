package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements sitevec.RateLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ sitevec.RateLimiter = crawl.NewLimiter(1, time.Second)
	})

	t.Run("allows immediate first request", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(10, time.Second)

		start := time.Now()
		err := limiter.Wait(context.Background())
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "first request should be immediate")
	})

	t.Run("spaces requests evenly across the window", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(10, time.Second) // 100ms between requests

		require.NoError(t, limiter.Wait(context.Background()))

		start := time.Now()
		err := limiter.Wait(context.Background())
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "should wait for rate limit")
	})

	t.Run("admits no more than the quota per window across callers", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(5, 200*time.Millisecond) // 40ms apart

		var wg sync.WaitGroup
		var completed atomic.Int32
		start := time.Now()
		for range 6 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Wait(context.Background()) == nil {
					completed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(6), completed.Load(), "all callers are eventually served")
		assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond,
			"six admissions cannot fit in one window of five")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(1, time.Second)
		require.NoError(t, limiter.Wait(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx)
		assert.Error(t, err, "should fail when context times out")
	})

	t.Run("falls back to defaults for invalid quota", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(0, 0)

		require.NoError(t, limiter.Wait(context.Background()))
	})
}
