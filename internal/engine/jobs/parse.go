package jobs

import (
	"regexp"
	"strings"
)

// ParseSkillsResponse turns the model's grouped skills text back into
// canonical form. The asked-for shape is a "Category:" heading followed by
// comma-separated skill lines, blank line between groups; a bare heading
// with no skills is a label-only group. Models drift, so this also accepts
// "Category: skill, skill" on one line, markdown emphasis around headings,
// and an unlabeled flat list. Returns nil when nothing parseable came back.
func ParseSkillsResponse(text string, categoryOrder []string) []SkillGroup {
	var groups []SkillGroup
	cur := -1

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			cur = -1
			continue
		}

		if i := strings.Index(line, ":"); i >= 0 {
			cat := canonicalCategory(stripEmphasis(line[:i]))
			if cat == "" {
				continue
			}
			groups = append(groups, SkillGroup{Category: cat, Skills: splitSkills(line[i+1:])})
			cur = len(groups) - 1
			continue
		}

		bare := stripEmphasis(line)
		if bare == "" {
			continue
		}
		switch {
		case cur >= 0:
			groups[cur].Skills = append(groups[cur].Skills, splitSkills(bare)...)
		case strings.Contains(bare, ","):
			groups = append(groups, SkillGroup{Category: UncategorizedLabel, Skills: splitSkills(bare)})
			cur = len(groups) - 1
		default:
			groups = append(groups, SkillGroup{Category: canonicalCategory(bare)})
			cur = len(groups) - 1
		}
	}

	if len(groups) == 0 {
		return nil
	}
	return orderGroups(groups, categoryOrder)
}

// bulletPrefixRe matches the list markers models put in front of bullets.
var bulletPrefixRe = regexp.MustCompile(`^(?:[-•*–]+|\d+[.)])\s*`)

// ParseBullets splits a completion into bullet lines, stripping leading
// list glyphs and numbering. Whatever count the model returned passes
// through.
func ParseBullets(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		line = bulletPrefixRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// stripEmphasis removes markdown decoration from the ends of a heading.
func stripEmphasis(s string) string {
	return strings.Trim(s, "*_# \t")
}
