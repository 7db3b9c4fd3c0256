package mock

import (
	"context"

	"github.com/fwojciec/sitevec"
)

var _ sitevec.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of sitevec.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}

var _ sitevec.Splitter = (*Splitter)(nil)

// Splitter is a mock implementation of sitevec.Splitter.
type Splitter struct {
	SplitFn func(ctx context.Context, text string) ([]sitevec.Segment, error)
}

func (s *Splitter) Split(ctx context.Context, text string) ([]sitevec.Segment, error) {
	return s.SplitFn(ctx, text)
}
