package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// SkillGroup is the canonical skills form: an ordered category with its
// skill list. A group with no skills renders as a standalone label.
type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// UncategorizedLabel buckets skills that arrive without a category.
const UncategorizedLabel = "Uncategorized"

// NormalizeSkills parses a resume file's skills field into canonical form.
// Resume files in the wild carry skills in four shapes: the canonical group
// array, a flat string array, a category to list object, and a single
// delimited string. Groups matching categoryOrder come first in that order;
// the rest keep input order (sorted for objects, whose key order JSON does
// not preserve).
func NormalizeSkills(data []byte, categoryOrder []string) ([]SkillGroup, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		return normalizeArray(trimmed, categoryOrder)
	case '{':
		return normalizeObject(trimmed, categoryOrder)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("skills: %w", err)
		}
		skills := splitSkills(s)
		if len(skills) == 0 {
			return nil, nil
		}
		return []SkillGroup{{Category: UncategorizedLabel, Skills: skills}}, nil
	default:
		return nil, fmt.Errorf("skills: unsupported shape %q", string(trimmed[0]))
	}
}

func normalizeArray(data []byte, categoryOrder []string) ([]SkillGroup, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}
	if len(elems) == 0 {
		return nil, nil
	}

	first := bytes.TrimSpace(elems[0])
	if len(first) > 0 && first[0] == '{' {
		var groups []SkillGroup
		if err := json.Unmarshal(data, &groups); err != nil {
			return nil, fmt.Errorf("skills: %w", err)
		}
		for i := range groups {
			groups[i].Category = canonicalCategory(groups[i].Category)
			groups[i].Skills = trimSkills(groups[i].Skills)
		}
		return orderGroups(groups, categoryOrder), nil
	}

	var flat []string
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}
	skills := trimSkills(flat)
	if len(skills) == 0 {
		return nil, nil
	}
	return []SkillGroup{{Category: UncategorizedLabel, Skills: skills}}, nil
}

func normalizeObject(data []byte, categoryOrder []string) ([]SkillGroup, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}

	groups := make([]SkillGroup, 0, len(raw))
	for key, val := range raw {
		g := SkillGroup{Category: canonicalCategory(key)}

		var list []string
		if err := json.Unmarshal(val, &list); err == nil {
			g.Skills = trimSkills(list)
		} else {
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, fmt.Errorf("skills: category %q: %w", key, err)
			}
			g.Skills = splitSkills(s)
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return orderGroups(groups, categoryOrder), nil
}

// FlattenSkills returns every skill in group order.
func FlattenSkills(groups []SkillGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Skills...)
	}
	return out
}

// orderGroups puts groups matching the configured order first, adopting
// the configured spelling, and appends the rest in input order.
func orderGroups(groups []SkillGroup, categoryOrder []string) []SkillGroup {
	out := make([]SkillGroup, 0, len(groups))
	used := make([]bool, len(groups))
	for _, want := range categoryOrder {
		for i := range groups {
			if !used[i] && strings.EqualFold(groups[i].Category, want) {
				g := groups[i]
				g.Category = want
				out = append(out, g)
				used[i] = true
			}
		}
	}
	for i := range groups {
		if !used[i] {
			out = append(out, groups[i])
		}
	}
	return out
}

// canonicalCategory turns keys like "programming_languages" into
// "Programming Languages". Existing capitalization inside a word is kept.
func canonicalCategory(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// splitSkills breaks a delimited string into individual skills.
func splitSkills(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	return trimSkills(parts)
}

func trimSkills(skills []string) []string {
	out := skills[:0]
	for _, sk := range skills {
		sk = strings.Trim(sk, "*_ \t")
		if sk != "" {
			out = append(out, sk)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
