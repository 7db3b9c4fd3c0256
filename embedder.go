package sitevec

import "context"

// Embedder converts text into a fixed-length vector.
// Callers must treat it as rate-limited and fallible.
type Embedder interface {
	// Embed returns the embedding of text.
	// Service failures return an EEMBEDDING error.
	Embed(ctx context.Context, text string) ([]float32, error)
}
