package docx

import (
	"regexp"
	"strings"
	"time"
)

var (
	hostileChars = regexp.MustCompile(`[^\p{L}\p{N} _-]`)
	underscores  = regexp.MustCompile(`_+`)
)

// Filename builds {Name}_{JobTitle}_{Company}_{YYYYMMDD}.docx. Spaces become
// underscores and path-hostile characters are dropped; empty parts are
// skipped rather than leaving doubled separators.
func Filename(name, jobTitle, company string, now time.Time) string {
	var parts []string
	for _, s := range []string{name, jobTitle, company} {
		if s = sanitizePart(s); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, now.Format("20060102"))
	return strings.Join(parts, "_") + ".docx"
}

func sanitizePart(s string) string {
	s = hostileChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	return underscores.ReplaceAllString(s, "_")
}
