// Package goquery extracts visible text and hyperlinks from HTML pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitevec"
	"golang.org/x/net/html"
)

var _ sitevec.Extractor = (*Extractor)(nil)

// nonContentSelector matches elements whose text is never visible content.
const nonContentSelector = "script, style, noscript, template, iframe, svg"

// Extractor returns the visible text of a page and every hyperlink on it.
type Extractor struct {
	// MainContent restricts text to the page's main content region when one
	// can be located. Links are always taken from the whole page.
	MainContent bool

	detector *Detector
}

// NewExtractor creates an Extractor for the whole page text.
func NewExtractor() *Extractor {
	return &Extractor{detector: NewDetector()}
}

// NewContentExtractor creates an Extractor for main-content text.
func NewContentExtractor() *Extractor {
	return &Extractor{MainContent: true, detector: NewDetector()}
}

// Extract parses rawHTML and returns its text and absolute links.
// Links are resolved against pageURL, stripped of fragments and deduplicated
// in document order.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*sitevec.ExtractResult, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "failed to parse HTML: %v", err)
	}

	links := extractLinks(doc, base)

	doc.Find(nonContentSelector).Remove()

	root := doc.Selection
	if e.MainContent {
		detector := e.detector
		if detector == nil {
			detector = NewDetector()
		}
		if region := ContentRegion(doc, detector.DetectDocument(doc)); region != nil {
			root = region
		}
	}

	return &sitevec.ExtractResult{
		Text:  VisibleText(root),
		Links: links,
	}, nil
}

// ExtractLinks returns the absolute links of rawHTML resolved against pageURL.
func ExtractLinks(rawHTML string, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "failed to parse HTML: %v", err)
	}

	return extractLinks(doc, base), nil
}

func extractLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]struct{})
	links := []string{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links
}

// VisibleText returns the text nodes under sel joined by single spaces.
func VisibleText(sel *goquery.Selection) string {
	var words []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			words = append(words, strings.Fields(n.Data)...)
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(words, " ")
}

// resolveURL resolves href against base and strips the fragment.
// Returns empty string if href cannot be parsed or does not resolve to an
// http(s) URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
