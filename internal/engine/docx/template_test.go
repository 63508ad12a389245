package docx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemplate(t *testing.T, parts map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	path := filepath.Join(t.TempDir(), "template.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

const templateDoc = `<?xml version="1.0"?><w:document xmlns:w="x"><w:body>` +
	`<w:p><w:r><w:t xml:space="preserve">{{name}}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t xml:space="preserve">{{summary}}</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t xml:space="preserve">{{experience}}</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func TestFillTemplate(t *testing.T) {
	path := writeTemplate(t, map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         packageRelsXML,
		"word/document.xml":   templateDoc,
	})

	r := sampleTailored()
	r.Experience[0].Company = "Black & Decker"
	data, err := FillTemplate(path, r)
	if err != nil {
		t.Fatalf("FillTemplate: %v", err)
	}

	doc := readPart(t, data, "word/document.xml")
	if strings.Contains(doc, "{{") {
		t.Errorf("unfilled placeholders remain: %s", doc)
	}
	if !strings.Contains(doc, "Jane Doe") {
		t.Error("name not filled")
	}
	if !strings.Contains(doc, "Black &amp; Decker") {
		t.Error("filled values must be xml-escaped")
	}
	// Multi-line sections flow through hard breaks inside the host run.
	if !strings.Contains(doc, lineBreak) {
		t.Error("experience lines should be joined with w:br")
	}
	if !strings.Contains(doc, "• Led the payments team") {
		t.Error("experience bullets missing")
	}
}

func TestFillTemplateWithoutDocumentPart(t *testing.T) {
	path := writeTemplate(t, map[string]string{"[Content_Types].xml": contentTypesXML})
	if _, err := FillTemplate(path, sampleTailored()); err == nil {
		t.Error("expected error for template without word/document.xml")
	}
}

func TestAssembleScratchLayout(t *testing.T) {
	dir := t.TempDir()
	path, err := Assemble(sampleTailored(), LayoutConfig{OutputDir: dir})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "Jane_Doe_Go_Developer_Initech_") || !strings.HasSuffix(base, ".docx") {
		t.Errorf("filename = %q", base)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	doc := readPart(t, data, "word/document.xml")
	if !strings.Contains(doc, "Jane Doe") {
		t.Error("rendered document missing content")
	}
}

func TestAssembleFallsBackOnBadTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg := LayoutConfig{
		OutputDir:    dir,
		TemplatePath: filepath.Join(dir, "does-not-exist.docx"),
	}
	path, err := Assemble(sampleTailored(), cfg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("fallback output missing: %v", err)
	}
}

func TestAssembleCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	cfg := LayoutConfig{OutputDir: dir}

	first, err := Assemble(sampleTailored(), cfg)
	if err != nil {
		t.Fatalf("first Assemble: %v", err)
	}
	second, err := Assemble(sampleTailored(), cfg)
	if err != nil {
		t.Fatalf("second Assemble: %v", err)
	}
	if first == second {
		t.Fatalf("collision not resolved: %s", first)
	}
	stem := strings.TrimSuffix(filepath.Base(first), ".docx")
	if !strings.HasPrefix(filepath.Base(second), stem+"_") {
		t.Errorf("second file %q should carry a time suffix on %q", filepath.Base(second), stem)
	}
}
