package extract

import (
	"strings"
	"testing"
)

func TestFromContent_PlainTextPassthrough(t *testing.T) {
	doc := FromContent("  plain text  \n", "text/plain", "", 0)
	if doc.Text != "plain text" {
		t.Fatalf("expected trimmed passthrough, got %q", doc.Text)
	}
	if doc.Title != "" {
		t.Fatalf("plain text should carry no title, got %q", doc.Title)
	}
}

func TestFromContent_ExcludesScriptAndStyle(t *testing.T) {
	html := `<!doctype html>
	<html>
	  <head>
	    <title>Sample Article</title>
	    <style>body { color: red; }</style>
	    <script>var secret = "should not appear";</script>
	  </head>
	  <body>
	    <nav>Site navigation links</nav>
	    <article>
	      <h1>Sample Article</h1>
	      <p>This is the first paragraph of the article body. It carries enough
	      prose that the extraction pass treats it as the main content of the
	      page rather than boilerplate.</p>
	      <p>A second paragraph keeps the content substantial and realistic so
	      the readable portion dominates the document.</p>
	    </article>
	    <footer>Copyright footer</footer>
	  </body>
	</html>`

	doc := FromContent(html, "text/html", "https://example.com/a", 0)
	if doc.Title != "Sample Article" {
		t.Fatalf("expected title 'Sample Article', got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "first paragraph of the article body") {
		t.Fatalf("expected article text, got %q", doc.Text)
	}
	if strings.Contains(doc.Text, "should not appear") {
		t.Fatalf("script content leaked into text")
	}
	if strings.Contains(doc.Text, "color: red") {
		t.Fatalf("style content leaked into text")
	}
}

func TestFromContent_StructuralFallbackShortContent(t *testing.T) {
	// Too short for the readability pass; the structural fallback should
	// still recover the body text and skip boilerplate elements.
	html := `<html>
	  <head><title>Tiny</title></head>
	  <body>
	    <nav>navigation</nav>
	    <main><p>Short note.</p></main>
	    <footer>footer text</footer>
	  </body>
	</html>`

	doc := FromContent(html, "text/html", "", 0)
	if doc.Title != "Tiny" {
		t.Fatalf("expected title 'Tiny', got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "Short note.") {
		t.Fatalf("expected fallback to recover body text, got %q", doc.Text)
	}
	if strings.Contains(doc.Text, "navigation") || strings.Contains(doc.Text, "footer text") {
		t.Fatalf("boilerplate leaked into fallback text: %q", doc.Text)
	}
}

func TestFromContent_TitleWithoutBody(t *testing.T) {
	html := `<html><head><title>Only A Title</title></head><body></body></html>`
	doc := FromContent(html, "text/html", "", 0)
	if doc.Title != "Only A Title" {
		t.Fatalf("expected title, got %q", doc.Title)
	}
	if doc.Text != "" {
		t.Fatalf("expected no text, got %q", doc.Text)
	}
}

func TestFromContent_ConfigurableThreshold(t *testing.T) {
	// With a tiny threshold the fallback's short result is irrelevant: the
	// content root is preferred over body and blank lines are collapsed.
	html := `<html><head><title>T</title></head>
	<body><div id="content"><p>Alpha.</p>

	<p>Beta.</p></div></body></html>`

	doc := FromContent(html, "text/html", "", 1)
	if doc.Text == "" {
		t.Fatalf("expected some text")
	}
	if strings.Contains(doc.Text, "\n\n\n") {
		t.Fatalf("blank lines not collapsed: %q", doc.Text)
	}
}

func TestFromContent_MalformedHTMLDoesNotPanic(t *testing.T) {
	doc := FromContent("<<<>>><html<body<p unclosed", "text/html", "", 0)
	_ = doc // reaching here without a panic is the assertion
}

func TestMeaningful_CountsCharactersNotBytes(t *testing.T) {
	// 20 CJK characters occupy 60 bytes; a 50-character threshold must
	// still reject them.
	if meaningful(strings.Repeat("日", 20), 50) {
		t.Fatalf("20 characters passed a 50-character threshold")
	}
	if !meaningful(strings.Repeat("日", 51), 50) {
		t.Fatalf("51 characters rejected by a 50-character threshold")
	}
	// The threshold is exclusive.
	if meaningful(strings.Repeat("a", 50), 50) {
		t.Fatalf("expected exactly-at-threshold text to be rejected")
	}
}

func TestNormalize(t *testing.T) {
	in := "  line one  \n\n\n   line   two  with    gaps \n"
	out := normalize(in)
	if strings.Contains(out, "\n\n") {
		t.Fatalf("expected collapsed blanks, got %q", out)
	}
	if !strings.Contains(out, "line one") {
		t.Fatalf("lost content: %q", out)
	}
}
