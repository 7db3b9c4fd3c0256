package sitevec

import "context"

// TokenCounter counts tokens in text.
// Implementations must be deterministic for the same input.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
