// Package chunk splits page text into sentence-aligned, token-bounded
// segments with a configurable sentence overlap between neighbours.
package chunk

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/fwojciec/sitevec"
)

var _ sitevec.Splitter = (*Chunker)(nil)

// Defaults for Chunker.
const (
	DefaultMaxTokens = 1000
	DefaultOverlap   = 2
)

// Chunker groups consecutive sentences into segments of at most MaxTokens
// tokens. Each segment after the first starts with the last Overlap
// sentences of the previous one.
//
// A single sentence longer than MaxTokens is emitted as its own segment.
type Chunker struct {
	MaxTokens int
	Overlap   int

	// Counter measures sentence and segment lengths. Defaults to WordCounter.
	Counter sitevec.TokenCounter
}

// New returns a Chunker using the default limits and the word counter.
func New() *Chunker {
	return &Chunker{
		MaxTokens: DefaultMaxTokens,
		Overlap:   DefaultOverlap,
		Counter:   WordCounter{},
	}
}

// Split returns the segments of text in document order.
func (c *Chunker) Split(ctx context.Context, text string) ([]sitevec.Segment, error) {
	sents := Sentences(text)
	if len(sents) == 0 {
		return nil, nil
	}

	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	overlap := max(c.Overlap, 0)
	counter := c.Counter
	if counter == nil {
		counter = WordCounter{}
	}

	var segments []sitevec.Segment
	emit := func(group []string) error {
		content := strings.Join(group, " ")
		n, err := counter.CountTokens(ctx, content)
		if err != nil {
			return fmt.Errorf("count tokens: %w", err)
		}
		segments = append(segments, sitevec.Segment{Content: content, TokenCount: n})
		return nil
	}

	var current []string
	currentTokens := 0
	for _, sent := range sents {
		n, err := counter.CountTokens(ctx, sent)
		if err != nil {
			return nil, fmt.Errorf("count tokens: %w", err)
		}

		if currentTokens+n > maxTokens && len(current) > 0 {
			if err := emit(current); err != nil {
				return nil, err
			}
			seed := current[max(len(current)-overlap, 0):]
			current = append([]string(nil), seed...)
			currentTokens = 0
			for _, s := range current {
				m, err := counter.CountTokens(ctx, s)
				if err != nil {
					return nil, fmt.Errorf("count tokens: %w", err)
				}
				currentTokens += m
			}
		}

		current = append(current, sent)
		currentTokens += n
	}

	if len(current) > 0 {
		if err := emit(current); err != nil {
			return nil, err
		}
	}
	return segments, nil
}

// Sentences splits text into trimmed, non-empty sentences using Unicode
// sentence boundaries.
func Sentences(text string) []string {
	var out []string
	iter := sentences.FromString(text)
	for iter.Next() {
		s := strings.TrimSpace(iter.Value())
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

var _ sitevec.TokenCounter = WordCounter{}

// WordCounter counts whitespace-separated words.
type WordCounter struct{}

func (WordCounter) CountTokens(_ context.Context, text string) (int, error) {
	return len(strings.Fields(text)), nil
}
