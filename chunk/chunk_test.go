package chunk_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/chunk"
	"github.com/fwojciec/sitevec/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_Split(t *testing.T) {
	t.Parallel()

	t.Run("empty text yields no segments", func(t *testing.T) {
		t.Parallel()

		segments, err := chunk.New().Split(context.Background(), "   \n\t ")

		require.NoError(t, err)
		assert.Empty(t, segments)
	})

	t.Run("short text fits in one segment", func(t *testing.T) {
		t.Parallel()

		segments, err := chunk.New().Split(context.Background(), "Hello world. How are you?")

		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, "Hello world. How are you?", segments[0].Content)
		assert.Equal(t, 5, segments[0].TokenCount)
	})

	t.Run("closes segments at the token limit with sentence overlap", func(t *testing.T) {
		t.Parallel()

		c := &chunk.Chunker{MaxTokens: 4, Overlap: 1, Counter: chunk.WordCounter{}}

		segments, err := c.Split(context.Background(), "One two. Three four. Five six. Seven eight.")

		require.NoError(t, err)
		assert.Equal(t, []sitevec.Segment{
			{Content: "One two. Three four.", TokenCount: 4},
			{Content: "Three four. Five six.", TokenCount: 4},
			{Content: "Five six. Seven eight.", TokenCount: 4},
		}, segments)
	})

	t.Run("zero overlap does not repeat sentences", func(t *testing.T) {
		t.Parallel()

		c := &chunk.Chunker{MaxTokens: 4, Overlap: 0}

		segments, err := c.Split(context.Background(), "One two. Three four. Five six. Seven eight.")

		require.NoError(t, err)
		assert.Equal(t, []sitevec.Segment{
			{Content: "One two. Three four.", TokenCount: 4},
			{Content: "Five six. Seven eight.", TokenCount: 4},
		}, segments)
	})

	t.Run("oversized sentence becomes its own segment", func(t *testing.T) {
		t.Parallel()

		c := &chunk.Chunker{MaxTokens: 3, Overlap: 0, Counter: chunk.WordCounter{}}

		segments, err := c.Split(context.Background(),
			"Short one. This sentence is definitely way too long. End.")

		require.NoError(t, err)
		require.Len(t, segments, 3)
		assert.Equal(t, "Short one.", segments[0].Content)
		assert.Equal(t, "This sentence is definitely way too long.", segments[1].Content)
		assert.Equal(t, 7, segments[1].TokenCount)
		assert.Equal(t, "End.", segments[2].Content)
	})

	t.Run("segments stay within the limit when sentences fit", func(t *testing.T) {
		t.Parallel()

		c := &chunk.Chunker{MaxTokens: 10, Overlap: 1}
		text := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota. Kappa lambda mu. Nu xi omicron. Pi rho sigma."

		segments, err := c.Split(context.Background(), text)

		require.NoError(t, err)
		require.Greater(t, len(segments), 1)
		for _, seg := range segments {
			assert.LessOrEqual(t, seg.TokenCount, 10)
			assert.NotEmpty(t, seg.Content)
		}
		assert.Contains(t, segments[0].Content, "Alpha beta gamma.")
		assert.Contains(t, segments[len(segments)-1].Content, "Pi rho sigma.")
	})

	t.Run("uses the configured token counter", func(t *testing.T) {
		t.Parallel()

		c := &chunk.Chunker{
			MaxTokens: 100,
			Counter: &mock.TokenCounter{
				CountTokensFn: func(_ context.Context, text string) (int, error) {
					return len(text), nil
				},
			},
		}

		segments, err := c.Split(context.Background(), "Abc. Def.")

		require.NoError(t, err)
		require.Len(t, segments, 1)
		assert.Equal(t, len("Abc. Def."), segments[0].TokenCount)
	})

	t.Run("returns token counter error", func(t *testing.T) {
		t.Parallel()

		c := &chunk.Chunker{
			MaxTokens: 100,
			Counter: &mock.TokenCounter{
				CountTokensFn: func(_ context.Context, _ string) (int, error) {
					return 0, errors.New("tokenizer unavailable")
				},
			},
		}

		_, err := c.Split(context.Background(), "Some text.")

		assert.ErrorContains(t, err, "tokenizer unavailable")
	})
}

func TestSentences(t *testing.T) {
	t.Parallel()

	t.Run("splits on sentence terminators", func(t *testing.T) {
		t.Parallel()

		got := chunk.Sentences("Hello world. How are you? I am fine!")

		assert.Equal(t, []string{"Hello world.", "How are you?", "I am fine!"}, got)
	})

	t.Run("drops blank input", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, chunk.Sentences(""))
		assert.Empty(t, chunk.Sentences("  \n "))
	})
}

func TestWordCounter(t *testing.T) {
	t.Parallel()

	n, err := chunk.WordCounter{}.CountTokens(context.Background(), "  one two\tthree\nfour ")

	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
