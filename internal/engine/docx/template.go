package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
)

// Assemble renders t into cfg.OutputDir and returns the written path.
// With a usable template the placeholders are filled in place; any template
// problem falls back to the built-in layout.
func Assemble(t *jobs.TailoredResume, cfg LayoutConfig) (string, error) {
	data, err := render(t, cfg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return "", fmt.Errorf("docx: output dir: %w", err)
	}
	now := time.Now()
	path := filepath.Join(cfg.OutputDir, Filename(t.Personal.Name, t.Meta.JobTitle, t.Meta.Company, now))
	if _, err := os.Stat(path); err == nil {
		// Same job rendered twice today: keep both files.
		path = strings.TrimSuffix(path, ".docx") + "_" + now.Format("150405") + ".docx"
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("docx: write %s: %w", path, err)
	}
	return path, nil
}

func render(t *jobs.TailoredResume, cfg LayoutConfig) ([]byte, error) {
	if cfg.TemplatePath != "" {
		data, err := FillTemplate(cfg.TemplatePath, t)
		if err == nil {
			return data, nil
		}
		slog.Warn("template unusable, using built-in layout",
			"template", cfg.TemplatePath, "error", err)
	}
	return BuildResume(t, cfg).Bytes()
}

// FillTemplate replaces {{placeholder}} tokens inside the template's main
// document part and repackages the archive otherwise untouched.
func FillTemplate(path string, t *jobs.TailoredResume) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("docx: open template: %w", err)
	}
	defer zr.Close()

	repl := placeholders(t)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	found := false
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: template %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("docx: template %s: %w", f.Name, err)
		}
		if f.Name == "word/document.xml" {
			found = true
			data = []byte(repl.Replace(string(data)))
		}
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("docx: repack %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("docx: repack %s: %w", f.Name, err)
		}
	}
	if !found {
		return nil, errors.New("docx: template has no word/document.xml")
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: repack: %w", err)
	}
	return buf.Bytes(), nil
}

// lineBreak splits one w:t into two with a hard break between them, so a
// multi-line value renders inside whatever run holds its placeholder.
const lineBreak = `</w:t><w:br/><w:t xml:space="preserve">`

func placeholders(t *jobs.TailoredResume) *strings.Replacer {
	return strings.NewReplacer(
		"{{name}}", escape(t.Personal.Name),
		"{{title}}", escape(t.Personal.Title),
		"{{email}}", escape(t.Personal.Email),
		"{{phone}}", escape(t.Personal.Phone),
		"{{location}}", escape(t.Personal.Location),
		"{{linkedin}}", escape(t.Personal.LinkedIn),
		"{{github}}", escape(t.Personal.GitHub),
		"{{portfolio}}", escape(t.Personal.Portfolio),
		"{{summary}}", escape(t.Summary),
		"{{skills}}", flowLines(skillLines(t.Skills)),
		"{{education}}", flowLines(educationLines(t.Education)),
		"{{experience}}", flowLines(experienceLines(t.Experience)),
	)
}

func flowLines(lines []string) string {
	esc := make([]string, len(lines))
	for i, l := range lines {
		esc[i] = escape(l)
	}
	return strings.Join(esc, lineBreak)
}

func skillLines(groups []jobs.SkillGroup) []string {
	var lines []string
	for _, g := range groups {
		switch {
		case g.Category == jobs.UncategorizedLabel:
			lines = append(lines, strings.Join(g.Skills, ", "))
		case len(g.Skills) == 0:
			lines = append(lines, g.Category)
		default:
			lines = append(lines, g.Category+": "+strings.Join(g.Skills, ", "))
		}
	}
	return lines
}

func educationLines(entries []jobs.Education) []string {
	var lines []string
	for _, e := range entries {
		line := e.Degree
		if e.Institution != "" {
			line += ", " + e.Institution
		}
		if e.Dates != "" {
			line += " (" + e.Dates + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

func experienceLines(entries []jobs.Experience) []string {
	var lines []string
	for _, e := range entries {
		header := e.Title
		if e.Company != "" {
			header += ", " + e.Company
		}
		if e.Dates != "" {
			header += " (" + e.Dates + ")"
		}
		lines = append(lines, header)
		for _, b := range e.Bullets {
			lines = append(lines, "• "+b)
		}
	}
	return lines
}
