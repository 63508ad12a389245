// Package sources holds one adapter per job board. Every adapter returns
// plain engine.JobPosting records; filtering happens downstream.
package sources

import (
	"context"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// Query is one search request against a board.
type Query struct {
	Keyword    string
	Location   string
	MaxResults int
	MinSalary  int
	RemoteOnly bool
}

// Source is a job board adapter. Search errors are treated as "board
// unavailable for this run" by the pipeline, never as fatal.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query) ([]engine.JobPosting, error)
}

// Enabled returns the configured adapters in processing order. Reed and
// Adzuna are cheap REST calls and run before the browser-driven LinkedIn
// session.
func Enabled() []Source {
	var out []Source
	if engine.Cfg.ReedEnabled {
		out = append(out, Reed{})
	}
	if engine.Cfg.AdzunaEnabled {
		out = append(out, Adzuna{})
	}
	if engine.Cfg.LinkedInEnabled {
		out = append(out, LinkedIn{})
	}
	return out
}

// groupThousands renders 1234567 as "1,234,567".
func groupThousands(n int) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatSalaryRange renders a min/max pair with a currency symbol in the
// style the tracking sheet expects: "£30,000 - £40,000", "£30,000+",
// "Up to £40,000" or "Not specified".
func formatSalaryRange(symbol string, min, max int) string {
	switch {
	case min > 0 && max > 0 && min != max:
		return symbol + groupThousands(min) + " - " + symbol + groupThousands(max)
	case min > 0 && max > 0:
		return symbol + groupThousands(min)
	case min > 0:
		return symbol + groupThousands(min) + "+"
	case max > 0:
		return "Up to " + symbol + groupThousands(max)
	default:
		return "Not specified"
	}
}
