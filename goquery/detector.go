package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Framework identifies the generator that produced a page.
type Framework string

const (
	FrameworkUnknown    Framework = ""
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkVuePress   Framework = "vuepress"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkNextra     Framework = "nextra"
)

// contentSelectors locate the main content region for each framework.
// Selectors are tried in order; the first one that matches wins.
var contentSelectors = map[Framework][]string{
	FrameworkDocusaurus: {"article", "main"},
	FrameworkMkDocs:     {".md-content__inner", ".md-content", "main"},
	FrameworkSphinx:     {"[role='main']", ".document", ".body"},
	FrameworkVitePress:  {".vp-doc", ".VPDoc", "main"},
	FrameworkVuePress:   {".theme-default-content", "main"},
	FrameworkGitBook:    {"main"},
	FrameworkNextra:     {"article", "main"},
	FrameworkUnknown:    {"main", "article", "[role='main']"},
}

// Detector identifies documentation frameworks from HTML content.
// It checks for framework-specific CSS classes, data attributes, meta tags,
// and structural markers that are unique to each documentation generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect parses html and returns the identified framework.
func (d *Detector) Detect(html string) Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return FrameworkUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument returns the framework of an already parsed document.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) DetectDocument(doc *goquery.Document) Framework {
	// Meta generator tags are the most reliable signal when present.
	if framework := d.detectFromMetaGenerator(doc); framework != FrameworkUnknown {
		return framework
	}

	switch {
	case d.hasAny(doc, "#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container") ||
		d.hasAny(doc, "[data-rh]") && d.hasAny(doc, "[data-theme]"):
		return FrameworkDocusaurus
	case d.hasAny(doc, "[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"):
		return FrameworkMkDocs
	case d.hasAny(doc, ".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"):
		return FrameworkSphinx
	// VitePress before VuePress: it reuses some VuePress markup.
	case d.hasAny(doc, "#VPContent", ".VPDoc", ".VPDocAsideOutline"):
		return FrameworkVitePress
	case d.hasAny(doc, ".theme-default-content", ".sidebar-links", ".vuepress-navbar"):
		return FrameworkVuePress
	case d.hasAny(doc, "[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']") ||
		d.hasGitBookClasses(doc):
		return FrameworkGitBook
	case d.hasAny(doc, ".nextra-navbar", ".nextra-sidebar", ".nextra-toc"):
		return FrameworkNextra
	}

	return FrameworkUnknown
}

// ContentRegion returns the main content region of doc for framework, or
// nil if none of its content selectors match.
func ContentRegion(doc *goquery.Document, framework Framework) *goquery.Selection {
	for _, sel := range contentSelectors[framework] {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) Framework {
	generator := strings.ToLower(doc.Find("meta[name='generator']").Last().AttrOr("content", ""))
	if generator == "" {
		return FrameworkUnknown
	}

	for _, f := range []Framework{
		FrameworkSphinx,
		FrameworkGitBook,
		FrameworkDocusaurus,
		FrameworkMkDocs,
		FrameworkVitePress,
		FrameworkVuePress,
		FrameworkNextra,
	} {
		if strings.Contains(generator, string(f)) {
			return f
		}
	}
	return FrameworkUnknown
}

func (d *Detector) hasAny(doc *goquery.Document, selectors ...string) bool {
	for _, s := range selectors {
		if doc.Find(s).Length() > 0 {
			return true
		}
	}
	return false
}

// hasGitBookClasses requires at least two of GitBook's html element classes.
func (d *Detector) hasGitBookClasses(doc *goquery.Document) bool {
	class := doc.Find("html").AttrOr("class", "")
	if class == "" {
		return false
	}

	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}
