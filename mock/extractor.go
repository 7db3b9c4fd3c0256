package mock

import "github.com/fwojciec/sitevec"

var _ sitevec.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitevec.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*sitevec.ExtractResult, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*sitevec.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}
