package docx

import (
	"strings"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
)

const (
	leftColWidth  = 3600
	rightColWidth = 7200

	headerFill = "D9D9D9"
	mutedColor = "595959"

	nameSize   = 18
	titleSize  = 11
	headerSize = 11
	roleSize   = 10
	bodySize   = 9

	bulletIndent  = 216
	bulletHanging = 144
)

// LayoutConfig carries the rendering knobs: where files go, the optional
// template, and which skill categories render as bare labels.
type LayoutConfig struct {
	OutputDir    string
	TemplatePath string
	LabelOnly    []string
}

// LayoutConfigFromEngine snapshots the loaded configuration.
func LayoutConfigFromEngine() LayoutConfig {
	return LayoutConfig{
		OutputDir:    engine.Cfg.OutputDir,
		TemplatePath: engine.Cfg.TemplatePath,
		LabelOnly:    engine.Cfg.LabelOnly,
	}
}

// BuildResume lays the tailored resume out as one two-column table:
// identity, summary, skills and education on the narrow left, experience
// on the wide right. Entry order is the resume's own; nothing re-sorts.
func BuildResume(t *jobs.TailoredResume, cfg LayoutConfig) *Document {
	d := NewDocument()
	d.AddTable(Table{
		Widths: []int{leftColWidth, rightColWidth},
		Rows: [][]Cell{{
			{RightBorder: true, Paras: leftColumn(t, cfg)},
			{Paras: rightColumn(t)},
		}},
	})
	return d
}

func leftColumn(t *jobs.TailoredResume, cfg LayoutConfig) []Paragraph {
	var paras []Paragraph

	paras = append(paras, Paragraph{
		Runs:       []Run{{Text: t.Personal.Name, Bold: true, Size: nameSize}},
		SpaceAfter: 40,
	})
	if t.Personal.Title != "" {
		paras = append(paras, Paragraph{
			Runs:       []Run{{Text: t.Personal.Title, Size: titleSize, Color: mutedColor}},
			SpaceAfter: 120,
		})
	}
	for _, line := range contactLines(t.Personal) {
		paras = append(paras, Paragraph{Runs: []Run{{Text: line, Size: bodySize}}})
	}

	if t.Summary != "" {
		paras = append(paras, sectionHeader("Summary"))
		paras = append(paras, Paragraph{
			Runs:       []Run{{Text: t.Summary, Size: bodySize}},
			SpaceAfter: 60,
		})
	}

	if len(t.Skills) > 0 {
		paras = append(paras, sectionHeader("Skills"))
		paras = append(paras, skillParas(t.Skills, cfg.LabelOnly)...)
	}

	if len(t.Education) > 0 {
		paras = append(paras, sectionHeader("Education"))
		for _, e := range t.Education {
			paras = append(paras, educationParas(e)...)
		}
	}

	if len(t.Certifications) > 0 {
		paras = append(paras, sectionHeader("Certifications"))
		for _, c := range t.Certifications {
			line := c.Name
			if c.Issuer != "" {
				line += ", " + c.Issuer
			}
			if c.Date != "" {
				line += " (" + c.Date + ")"
			}
			paras = append(paras, Paragraph{
				Runs:       []Run{{Text: line, Size: bodySize}},
				SpaceAfter: 40,
			})
		}
	}
	return paras
}

func rightColumn(t *jobs.TailoredResume) []Paragraph {
	var paras []Paragraph

	if len(t.Experience) > 0 {
		paras = append(paras, sectionHeader("Experience"))
		for _, e := range t.Experience {
			paras = append(paras, roleParas(e)...)
		}
	}

	if len(t.Projects) > 0 {
		paras = append(paras, sectionHeader("Projects"))
		for _, p := range t.Projects {
			paras = append(paras, projectParas(p)...)
		}
	}
	return paras
}

// sectionHeader is the shared shaded band: bold caps in both columns.
func sectionHeader(title string) Paragraph {
	return Paragraph{
		Runs:        []Run{{Text: strings.ToUpper(title), Bold: true, Size: headerSize}},
		Fill:        headerFill,
		SpaceBefore: 160,
		SpaceAfter:  80,
	}
}

func contactLines(p jobs.Personal) []string {
	var lines []string
	for _, v := range []string{p.Email, p.Phone, p.Location, p.LinkedIn, p.GitHub, p.Portfolio} {
		if v != "" {
			lines = append(lines, v)
		}
	}
	return lines
}

// skillParas renders a bold category line plus a comma-joined skill line
// per group. Label-only categories collapse to the bold label; the
// uncategorized bucket gets no heading at all.
func skillParas(groups []jobs.SkillGroup, labelOnly []string) []Paragraph {
	var paras []Paragraph
	for _, g := range groups {
		switch {
		case g.Category == jobs.UncategorizedLabel:
			paras = append(paras, Paragraph{
				Runs:       []Run{{Text: strings.Join(g.Skills, ", "), Size: bodySize}},
				SpaceAfter: 60,
			})
		case len(g.Skills) == 0 || isLabelOnly(g.Category, labelOnly):
			paras = append(paras, Paragraph{
				Runs:       []Run{{Text: g.Category, Bold: true, Size: bodySize}},
				SpaceAfter: 60,
			})
		default:
			paras = append(paras,
				Paragraph{
					Runs:       []Run{{Text: g.Category, Bold: true, Size: bodySize}},
					SpaceAfter: 20,
				},
				Paragraph{
					Runs:       []Run{{Text: strings.Join(g.Skills, ", "), Size: bodySize}},
					SpaceAfter: 60,
				},
			)
		}
	}
	return paras
}

func isLabelOnly(category string, labelOnly []string) bool {
	for _, l := range labelOnly {
		if strings.EqualFold(l, category) {
			return true
		}
	}
	return false
}

func educationParas(e jobs.Education) []Paragraph {
	paras := []Paragraph{{
		Runs:        []Run{{Text: e.Degree, Bold: true, Size: bodySize}},
		SpaceBefore: 40,
	}}
	line := e.Institution
	if e.Dates != "" {
		line += " (" + e.Dates + ")"
	}
	if line != "" {
		paras = append(paras, Paragraph{Runs: []Run{{Text: line, Size: bodySize}}})
	}
	for _, h := range e.Highlights {
		paras = append(paras, bulletPara(h))
	}
	return paras
}

func roleParas(e jobs.Experience) []Paragraph {
	title := e.Title
	if e.Company != "" {
		title += ", " + e.Company
	}
	paras := []Paragraph{{
		Runs:        []Run{{Text: title, Bold: true, Size: roleSize}},
		SpaceBefore: 60,
	}}

	if line := datePlaceLine(e.Dates, e.Location); line != "" {
		paras = append(paras, Paragraph{
			Runs:       []Run{{Text: line, Italic: true, Size: bodySize, Color: mutedColor}},
			SpaceAfter: 40,
		})
	}
	for _, b := range e.Bullets {
		paras = append(paras, bulletPara(b))
	}
	if len(e.Technologies) > 0 {
		paras = append(paras, Paragraph{
			Runs: []Run{
				{Text: "Technologies: ", Bold: true, Size: bodySize},
				{Text: strings.Join(e.Technologies, ", "), Size: bodySize},
			},
			SpaceAfter: 60,
		})
	}
	return paras
}

func projectParas(p jobs.Project) []Paragraph {
	title := p.Name
	if p.Dates != "" {
		title += " (" + p.Dates + ")"
	}
	paras := []Paragraph{{
		Runs:        []Run{{Text: title, Bold: true, Size: roleSize}},
		SpaceBefore: 60,
	}}
	if p.Description != "" {
		paras = append(paras, Paragraph{Runs: []Run{{Text: p.Description, Size: bodySize}}})
	}
	if len(p.Technologies) > 0 {
		paras = append(paras, Paragraph{
			Runs: []Run{
				{Text: "Technologies: ", Bold: true, Size: bodySize},
				{Text: strings.Join(p.Technologies, ", "), Size: bodySize},
			},
			SpaceAfter: 40,
		})
	}
	return paras
}

func bulletPara(text string) Paragraph {
	return Paragraph{
		Runs:       []Run{{Text: "• " + text, Size: bodySize}},
		IndentLeft: bulletIndent,
		Hanging:    bulletHanging,
	}
}

func datePlaceLine(dates, location string) string {
	switch {
	case dates != "" && location != "":
		return dates + " | " + location
	case dates != "":
		return dates
	default:
		return location
	}
}
