package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"
)

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(b)
	}
	t.Fatalf("part %s missing", name)
	return ""
}

func assertWellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("malformed xml: %v", err)
		}
	}
}

func TestDocumentPackageParts(t *testing.T) {
	d := NewDocument()
	d.AddParagraph(Paragraph{Runs: []Run{{Text: "hello"}}})
	data, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/document.xml",
	} {
		readPart(t, data, name)
	}

	doc := readPart(t, data, "word/document.xml")
	assertWellFormed(t, doc)
	if !strings.Contains(doc, `<w:t xml:space="preserve">hello</w:t>`) {
		t.Errorf("document.xml missing text run: %s", doc)
	}
	if !strings.Contains(doc, "<w:sectPr>") {
		t.Error("document.xml missing section properties")
	}
}

func TestRunFormatting(t *testing.T) {
	got := Run{Text: "Name", Bold: true, Size: 18}.xml()
	want := `<w:r><w:rPr><w:b/><w:sz w:val="36"/><w:szCs w:val="36"/></w:rPr><w:t xml:space="preserve">Name</w:t></w:r>`
	if got != want {
		t.Errorf("run xml = %s, want %s", got, want)
	}

	got = Run{Text: "dates", Italic: true, Size: 9, Color: "595959"}.xml()
	if !strings.Contains(got, "<w:i/>") || !strings.Contains(got, `<w:color w:val="595959"/>`) {
		t.Errorf("italic colored run = %s", got)
	}

	got = Run{Text: "plain"}.xml()
	if strings.Contains(got, "<w:rPr>") {
		t.Errorf("unstyled run should carry no rPr: %s", got)
	}
}

func TestEscapedText(t *testing.T) {
	got := Run{Text: `R&D <"lead">`}.xml()
	if !strings.Contains(got, "R&amp;D &lt;&#34;lead&#34;&gt;") {
		t.Errorf("text not escaped: %s", got)
	}
}

func TestEmptyCellGetsParagraph(t *testing.T) {
	tbl := Table{Widths: []int{3600, 7200}, Rows: [][]Cell{{{}, {}}}}
	got := tbl.xml()
	if strings.Count(got, "<w:p/>") != 2 {
		t.Errorf("empty cells need placeholder paragraphs: %s", got)
	}
	assertWellFormed(t, got)
}
