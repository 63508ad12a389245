package engine

import "testing"

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"nested", "<div><span>text</span></div>", "text"},
		{"plain", "no tags here", "no tags here"},
		{"whitespace", "  <p>padded</p>  ", "padded"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.in); got != tt.want {
				t.Errorf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b\t\tc", "a b c"},
		{"line1\n\nline2", "line1 line2"},
		{"  leading and trailing  ", "leading and trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CollapseWhitespace(tt.in); got != tt.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		limit  int
		suffix string
		want   string
	}{
		{"short", "hello", 10, "...", "hello"},
		{"exact", "hello", 5, "...", "hello"},
		{"cut", "hello world", 5, "...", "hello..."},
		{"no suffix", "hello world", 5, "", "hello"},
		{"utf8", "héllo wörld", 7, "", "héllo w"},
		{"zero", "hello", 0, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.in, tt.limit, tt.suffix); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d, %q) = %q, want %q", tt.in, tt.limit, tt.suffix, got, tt.want)
			}
		})
	}
}

func TestTruncateAtWord(t *testing.T) {
	got := TruncateAtWord("the quick brown fox jumps", 16)
	if got != "the quick brown" {
		t.Errorf("TruncateAtWord = %q, want %q", got, "the quick brown")
	}
	if got := TruncateAtWord("short", 100); got != "short" {
		t.Errorf("TruncateAtWord short = %q", got)
	}
	// A boundary in the first half is not worth backing up to.
	if got := TruncateAtWord("a bcdefghijklmnopqrstuvwxyz", 20); got != "a bcdefghijklmnopqrs" {
		t.Errorf("TruncateAtWord long word = %q", got)
	}
}
