// Package lru caches embeddings in memory.
package lru

import (
	"context"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitevec"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of embeddings to keep.
const DefaultCacheSize = 1000

// Ensure CachedEmbedder implements sitevec.Embedder at compile time.
var _ sitevec.Embedder = (*CachedEmbedder)(nil)

// CachedEmbedder wraps an Embedder with an LRU cache keyed by text, so
// repeated chunks and queries are embedded once. Failures are not cached.
type CachedEmbedder struct {
	next  sitevec.Embedder
	cache *lru.Cache[uint64, []float32]
}

// NewCachedEmbedder creates a CachedEmbedder holding up to size embeddings.
// A non-positive size uses DefaultCacheSize.
func NewCachedEmbedder(next sitevec.Embedder, size int) *CachedEmbedder {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[uint64, []float32](size)
	return &CachedEmbedder{next: next, cache: cache}
}

// Embed returns the cached embedding of text, computing it on a miss.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := xxhash.Sum64String(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

// Len returns the number of cached embeddings.
func (c *CachedEmbedder) Len() int {
	return c.cache.Len()
}
