package sitevec

// PageResult is the outcome of a successful fetch and parse of one page.
type PageResult struct {
	URL   string
	Text  string
	Links []string
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Text is the visible text with markup removed and whitespace collapsed.
	Text string

	// Links are absolute hyperlink targets resolved against the page URL,
	// in document order, without fragments and without duplicates.
	Links []string
}

// Extractor extracts visible text and hyperlinks from HTML pages.
type Extractor interface {
	// Extract parses raw HTML fetched from pageURL.
	// Relative links are resolved against pageURL.
	Extract(html string, pageURL string) (*ExtractResult, error)
}
