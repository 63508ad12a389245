package jobs

import (
	"strings"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// FilterConfig controls posting selection. The zero value only removes
// URL duplicates.
type FilterConfig struct {
	ExcludedKeywords []string
	MinSalary        int
	RemoteOnly       bool
	RemotePositive   []string
	RemoteNegative   []string
}

// FilterConfigFromEngine snapshots the loaded configuration.
func FilterConfigFromEngine() FilterConfig {
	return FilterConfig{
		ExcludedKeywords: engine.Cfg.ExcludedKeywords,
		MinSalary:        engine.Cfg.MinSalary,
		RemoteOnly:       engine.Cfg.RemoteOnly,
		RemotePositive:   engine.Cfg.RemotePositive,
		RemoteNegative:   engine.Cfg.RemoteNegative,
	}
}

// Filter dedups and screens postings. Pure function, stable order; the
// only failure mode is fewer results.
func Filter(postings []engine.JobPosting, cfg FilterConfig) []engine.JobPosting {
	seen := make(map[string]bool, len(postings))
	out := make([]engine.JobPosting, 0, len(postings))
	for _, p := range postings {
		if p.URL != "" {
			if seen[p.URL] {
				continue
			}
			seen[p.URL] = true
		}
		if excludedByKeyword(p, cfg.ExcludedKeywords) {
			continue
		}
		if cfg.MinSalary > 0 && p.SalaryMin > 0 && p.SalaryMin < cfg.MinSalary {
			continue
		}
		if cfg.RemoteOnly && !isRemote(p, cfg.RemotePositive, cfg.RemoteNegative) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// excludedByKeyword matches case-insensitive substrings against title and
// description. Entries like "sr." and "sr " are deliberate: they catch
// abbreviated seniority without excluding words that merely contain "sr".
func excludedByKeyword(p engine.JobPosting, keywords []string) bool {
	title := strings.ToLower(p.Title)
	desc := strings.ToLower(p.Description)
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) || strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// isRemote accepts a posting when the title or location says remote, or
// the description carries a positive phrase, and the description carries
// no negative phrase. Negative wins over positive: "remote work, but must
// relocate" is an onsite job.
func isRemote(p engine.JobPosting, positive, negative []string) bool {
	desc := strings.ToLower(p.Description)
	for _, neg := range negative {
		if neg != "" && strings.Contains(desc, strings.ToLower(neg)) {
			return false
		}
	}

	title := strings.ToLower(p.Title)
	location := strings.ToLower(p.Location)
	if strings.Contains(title, "remote") || strings.Contains(location, "remote") {
		return true
	}
	for _, pos := range positive {
		if pos != "" && strings.Contains(desc, strings.ToLower(pos)) {
			return true
		}
	}
	return false
}
