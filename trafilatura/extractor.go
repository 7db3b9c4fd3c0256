// Package trafilatura extracts the main article text of a page, dropping
// navigation, sidebars and footers.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/goquery"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements sitevec.Extractor at compile time.
var _ sitevec.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content text from HTML.
// Links are taken from the whole page so navigation is still followed.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content text of rawHTML and its absolute links.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*sitevec.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitevec.Errorf(sitevec.EINVALID, "empty HTML input")
	}

	links, err := goquery.ExtractLinks(rawHTML, pageURL)
	if err != nil {
		return nil, err
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	return &sitevec.ExtractResult{
		Text:  strings.Join(strings.Fields(result.ContentText), " "),
		Links: links,
	}, nil
}
