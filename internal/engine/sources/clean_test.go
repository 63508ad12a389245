package sources

import (
	"strings"
	"testing"
)

func TestCleanDescription(t *testing.T) {
	t.Run("plain text passthrough", func(t *testing.T) {
		got := CleanDescription("  Build Go services.\n\n  Ship daily.  ")
		if got != "Build Go services. Ship daily." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := CleanDescription("   "); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("html keeps list structure", func(t *testing.T) {
		got := CleanDescription("<p>About the role:</p><ul><li>Write Go</li><li>Review PRs</li></ul>")
		if !strings.Contains(got, "About the role:") {
			t.Errorf("missing paragraph text in %q", got)
		}
		if !strings.Contains(got, "Write Go") || !strings.Contains(got, "Review PRs") {
			t.Errorf("missing list items in %q", got)
		}
		if strings.Contains(got, "<li>") || strings.Contains(got, "<p>") {
			t.Errorf("tags leaked into %q", got)
		}
	})

	t.Run("bold becomes markdown", func(t *testing.T) {
		got := CleanDescription("We use <strong>Kubernetes</strong> heavily.")
		if !strings.Contains(got, "Kubernetes") {
			t.Errorf("missing text in %q", got)
		}
		if strings.Contains(got, "<strong>") {
			t.Errorf("tag leaked into %q", got)
		}
	})
}

func TestHTMLText(t *testing.T) {
	got := htmlText(`<div><script>var x = 1;</script><span>Hello</span> <b>World</b><style>.a{}</style></div>`)
	if got != "Hello World" {
		t.Errorf("htmlText = %q, want %q", got, "Hello World")
	}
}
