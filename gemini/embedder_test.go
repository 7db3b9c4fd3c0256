package gemini_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels is a stub of the genai Models embedding call.
type fakeModels struct {
	EmbedContentFn func(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

func (f *fakeModels) EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	return f.EmbedContentFn(ctx, model, contents, config)
}

func response(values ...float32) *genai.EmbedContentResponse {
	return &genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: values}},
	}
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("requests the configured model and dimensions", func(t *testing.T) {
		t.Parallel()

		var gotModel, gotText, gotTask string
		var gotDims int32
		models := &fakeModels{
			EmbedContentFn: func(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
				gotModel = model
				gotText = contents[0].Parts[0].Text
				gotDims = *config.OutputDimensionality
				gotTask = config.TaskType
				return response(0.1, 0.2, 0.3), nil
			},
		}

		e := gemini.NewEmbedder(models,
			gemini.WithModel("text-embedding-004"),
			gemini.WithDimensions(3),
			gemini.WithTaskType(gemini.DocumentTaskType),
		)
		vec, err := e.Embed(context.Background(), "hello world")

		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
		assert.Equal(t, "text-embedding-004", gotModel)
		assert.Equal(t, "hello world", gotText)
		assert.Equal(t, int32(3), gotDims)
		assert.Equal(t, gemini.DocumentTaskType, gotTask)
		assert.Equal(t, 3, e.Dimensions())
	})

	t.Run("defaults to gemini-embedding-001 with 3072 dimensions", func(t *testing.T) {
		t.Parallel()

		var gotModel string
		models := &fakeModels{
			EmbedContentFn: func(_ context.Context, model string, _ []*genai.Content, _ *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
				gotModel = model
				return response(make([]float32, 3072)...), nil
			},
		}

		e := gemini.NewEmbedder(models)
		vec, err := e.Embed(context.Background(), "text")

		require.NoError(t, err)
		assert.Len(t, vec, gemini.DefaultDimensions)
		assert.Equal(t, gemini.DefaultEmbeddingModel, gotModel)
	})

	t.Run("service error is an embedding error", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{
			EmbedContentFn: func(context.Context, string, []*genai.Content, *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
				return nil, errors.New("429 resource exhausted")
			},
		}

		_, err := gemini.NewEmbedder(models).Embed(context.Background(), "text")

		assert.Equal(t, sitevec.EEMBEDDING, sitevec.ErrorCode(err))
		assert.Contains(t, sitevec.ErrorMessage(err), "resource exhausted")
	})

	t.Run("empty response is an embedding error", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{
			EmbedContentFn: func(context.Context, string, []*genai.Content, *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
				return &genai.EmbedContentResponse{}, nil
			},
		}

		_, err := gemini.NewEmbedder(models).Embed(context.Background(), "text")

		assert.Equal(t, sitevec.EEMBEDDING, sitevec.ErrorCode(err))
	})

	t.Run("wrong length is a dimension error", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{
			EmbedContentFn: func(context.Context, string, []*genai.Content, *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
				return response(1, 2), nil
			},
		}

		_, err := gemini.NewEmbedder(models, gemini.WithDimensions(3)).Embed(context.Background(), "text")

		assert.Equal(t, sitevec.EDIMENSION, sitevec.ErrorCode(err))
	})

	t.Run("empty text is rejected without a call", func(t *testing.T) {
		t.Parallel()

		models := &fakeModels{
			EmbedContentFn: func(context.Context, string, []*genai.Content, *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
				t.Fatal("unexpected call")
				return nil, nil
			},
		}

		_, err := gemini.NewEmbedder(models).Embed(context.Background(), "")

		assert.Equal(t, sitevec.EEMBEDDING, sitevec.ErrorCode(err))
	})
}
