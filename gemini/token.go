package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/sitevec"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ sitevec.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens with the local Gemini tokenizer.
// No API call is made.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// DefaultTokenizerModel is a model the local tokenizer supports.
const DefaultTokenizerModel = "gemini-2.0-flash"

// NewTokenCounter creates a new TokenCounter for the given model.
// Returns EINVALID if the tokenizer does not support the model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultTokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, "user"),
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}

	return int(result.TotalTokens), nil
}
