// Package extract turns fetched page content into readable plain text. It
// tries a readability pass tuned for article recovery first and falls back
// to a structural walk of the parsed document when the heuristic yields too
// little.
package extract

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Document is the extracted content of a page. Text may be empty when no
// readable content was recoverable; Title may still be set in that case.
type Document struct {
	Text  string
	Title string
}

// DefaultMinTextLength is the smallest heuristic result considered
// meaningful. Anything shorter falls through to the structural pass.
const DefaultMinTextLength = 50

// Elements stripped before the structural pass.
const boilerplateSelector = "script, style, meta, link, noscript, header, footer, nav, aside, iframe"

// Containers preferred over <body> when picking the content root.
var contentSelectors = []string{"main", "article", "[role=main]", "#content", ".content"}

// FromContent extracts plain text and a title from decoded page content.
// Plain text passes through verbatim (trimmed, no title). HTML-family
// content goes through readability first, then the structural fallback.
// Parse failures degrade to an empty Document, never a panic.
func FromContent(content, contentType, pageURL string, minText int) (doc Document) {
	defer func() {
		if recover() != nil {
			doc = Document{}
		}
	}()

	if strings.Contains(contentType, "text/plain") {
		return Document{Text: strings.TrimSpace(content)}
	}

	if minText <= 0 {
		minText = DefaultMinTextLength
	}

	// The title is recovered from the document structure independently of
	// whether the readability pass succeeds.
	gdoc, gerr := goquery.NewDocumentFromReader(strings.NewReader(content))
	var title string
	if gerr == nil {
		title = strings.TrimSpace(gdoc.Find("title").First().Text())
	}

	if text := heuristicText(content, pageURL); meaningful(text, minText) {
		return Document{Text: text, Title: title}
	}

	if gerr != nil {
		return Document{Title: title}
	}
	return Document{Text: structuralText(gdoc), Title: title}
}

// meaningful reports whether a heuristic result is long enough to stand on
// its own. The threshold counts characters, not bytes, so multibyte content
// is not over-counted.
func meaningful(text string, minText int) bool {
	return utf8.RuneCountInString(text) > minText
}

// heuristicText runs the readability extractor and returns its trimmed text
// content, or empty when the extractor fails.
func heuristicText(content, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil || base == nil {
		base = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(content), base)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

// structuralText strips boilerplate elements, picks a content root
// (preferring main/article style containers over body), and flattens the
// remaining text with paragraph-like breaks.
func structuralText(doc *goquery.Document) string {
	doc.Find(boilerplateSelector).Remove()

	root := doc.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			root = s
			break
		}
	}
	if root == doc.Selection {
		if body := doc.Find("body").First(); body.Length() > 0 {
			root = body
		}
	}
	return normalize(root.Text())
}

// normalize splits flattened text into trimmed chunks and rejoins the
// non-empty ones, collapsing blank lines and intra-line spacing runs.
func normalize(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, chunk := range strings.Split(strings.TrimSpace(line), "  ") {
			chunk = strings.TrimSpace(chunk)
			if chunk != "" {
				out = append(out, chunk)
			}
		}
	}
	return strings.Join(out, "\n")
}
