package sources

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// CleanDescription turns a board's description payload into readable text.
// Boards disagree about what they send back: Reed returns HTML fragments,
// Adzuna returns plain text with entities, LinkedIn returns rendered markup.
// Markdown conversion keeps list structure; if that fails we fall back to a
// plain text extraction.
func CleanDescription(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "<") {
		return engine.CollapseWhitespace(raw)
	}
	if md, err := htmltomarkdown.ConvertString(raw); err == nil {
		md = strings.TrimSpace(md)
		if md != "" {
			return md
		}
	}
	if txt := htmlText(raw); txt != "" {
		return txt
	}
	return engine.CollapseWhitespace(engine.CleanHTML(raw))
}

// htmlText extracts the text content of an HTML fragment, skipping script
// and style subtrees.
func htmlText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return engine.CollapseWhitespace(b.String())
}
