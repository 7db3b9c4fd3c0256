// Package gemini provides embeddings and token counting backed by Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/sitevec"
	"google.golang.org/genai"
)

// Embedding defaults.
const (
	DefaultEmbeddingModel = "gemini-embedding-001"
	DefaultDimensions     = 3072
)

// DocumentTaskType tunes embeddings for documents that will be retrieved.
const DocumentTaskType = "RETRIEVAL_DOCUMENT"

// Ensure Embedder implements sitevec.Embedder at compile time.
var _ sitevec.Embedder = (*Embedder)(nil)

// EmbedModels is the subset of the genai Models service used by Embedder.
// *genai.Models satisfies it.
type EmbedModels interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder implements sitevec.Embedder using the Gemini embedding API.
type Embedder struct {
	models     EmbedModels
	model      string
	dimensions int
	taskType   string
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithModel sets the embedding model.
func WithModel(model string) Option {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithDimensions sets the requested embedding length.
func WithDimensions(n int) Option {
	return func(e *Embedder) {
		if n > 0 {
			e.dimensions = n
		}
	}
}

// WithTaskType sets the embedding task type hint.
func WithTaskType(taskType string) Option {
	return func(e *Embedder) {
		e.taskType = taskType
	}
}

// NewEmbedder creates a new Embedder. Pass client.Models from a *genai.Client.
func NewEmbedder(models EmbedModels, opts ...Option) *Embedder {
	e := &Embedder{
		models:     models,
		model:      DefaultEmbeddingModel,
		dimensions: DefaultDimensions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimensions returns the embedding length the Embedder produces.
func (e *Embedder) Dimensions() int { return e.dimensions }

// Embed returns the embedding of text.
// Service failures and malformed responses return EEMBEDDING.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, sitevec.Errorf(sitevec.EEMBEDDING, "empty text")
	}

	dims := int32(e.dimensions)
	config := &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
		TaskType:             e.taskType,
	}

	resp, err := e.models.EmbedContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, "user")},
		config,
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, sitevec.Errorf(sitevec.EEMBEDDING, "embed with %s: %v", e.model, err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, sitevec.Errorf(sitevec.EEMBEDDING, "%s returned no embedding", e.model)
	}

	values := resp.Embeddings[0].Values
	if len(values) != e.dimensions {
		return nil, sitevec.Errorf(sitevec.EDIMENSION, "%s returned %d dimensions, want %d", e.model, len(values), e.dimensions)
	}
	return values, nil
}
