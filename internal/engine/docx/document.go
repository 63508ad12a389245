// Package docx renders resumes as Office Open XML documents. The writer
// covers the small WordprocessingML subset the layout needs: styled runs,
// shaded paragraphs and a fixed two-column table.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// Run is one styled span of text. Size is in points; zero inherits the
// document default.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Size   int
	Color  string // RRGGBB, empty for automatic
}

// Paragraph is a sequence of runs with block-level formatting. Twip fields
// follow the OOXML convention of 1/20 point.
type Paragraph struct {
	Runs        []Run
	Fill        string // RRGGBB paragraph shading
	SpaceBefore int
	SpaceAfter  int
	IndentLeft  int
	Hanging     int
}

// Cell is one table cell. RightBorder draws the single vertical rule the
// two-column layout uses as its divider.
type Cell struct {
	Width       int // twips; zero takes the column width
	RightBorder bool
	Paras       []Paragraph
}

// Table is a fixed-layout table. All table-level borders are suppressed;
// any visible rule comes from cell borders.
type Table struct {
	Widths []int // column widths in twips
	Rows   [][]Cell
}

// Document accumulates body content and serializes to a .docx package.
type Document struct {
	blocks []string
}

func NewDocument() *Document { return &Document{} }

func (d *Document) AddParagraph(p Paragraph) { d.blocks = append(d.blocks, p.xml()) }

func (d *Document) AddTable(t Table) { d.blocks = append(d.blocks, t.xml()) }

// Bytes serializes the document as a complete .docx package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", d.documentXML()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("docx: create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("docx: write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: close package: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the package to path.
func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("docx: save: %w", err)
	}
	return nil
}

func (d *Document) documentXML() string {
	var b strings.Builder
	b.WriteString(documentHeader)
	for _, blk := range d.blocks {
		b.WriteString(blk)
	}
	b.WriteString(documentFooter)
	return b.String()
}

func (p Paragraph) xml() string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if pr := p.props(); pr != "" {
		b.WriteString("<w:pPr>")
		b.WriteString(pr)
		b.WriteString("</w:pPr>")
	}
	for _, r := range p.Runs {
		b.WriteString(r.xml())
	}
	b.WriteString("</w:p>")
	return b.String()
}

// props emits pPr children in schema order: shd, spacing, ind.
func (p Paragraph) props() string {
	var b strings.Builder
	if p.Fill != "" {
		fmt.Fprintf(&b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, p.Fill)
	}
	if p.SpaceBefore > 0 || p.SpaceAfter > 0 {
		fmt.Fprintf(&b, `<w:spacing w:before="%d" w:after="%d"/>`, p.SpaceBefore, p.SpaceAfter)
	}
	if p.IndentLeft > 0 || p.Hanging > 0 {
		fmt.Fprintf(&b, `<w:ind w:left="%d" w:hanging="%d"/>`, p.IndentLeft, p.Hanging)
	}
	return b.String()
}

func (r Run) xml() string {
	var pr strings.Builder
	if r.Bold {
		pr.WriteString("<w:b/>")
	}
	if r.Italic {
		pr.WriteString("<w:i/>")
	}
	if r.Color != "" {
		fmt.Fprintf(&pr, `<w:color w:val="%s"/>`, r.Color)
	}
	if r.Size > 0 {
		// w:sz is in half-points.
		fmt.Fprintf(&pr, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, r.Size*2, r.Size*2)
	}

	var b strings.Builder
	b.WriteString("<w:r>")
	if pr.Len() > 0 {
		b.WriteString("<w:rPr>")
		b.WriteString(pr.String())
		b.WriteString("</w:rPr>")
	}
	fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t>`, escape(r.Text))
	b.WriteString("</w:r>")
	return b.String()
}

func (t Table) xml() string {
	total := 0
	for _, w := range t.Widths {
		total += w
	}

	var b strings.Builder
	b.WriteString("<w:tbl><w:tblPr>")
	fmt.Fprintf(&b, `<w:tblW w:w="%d" w:type="dxa"/>`, total)
	b.WriteString(noTableBorders)
	b.WriteString(`<w:tblLayout w:type="fixed"/>`)
	b.WriteString(`<w:tblCellMar><w:left w:w="115" w:type="dxa"/><w:right w:w="115" w:type="dxa"/></w:tblCellMar>`)
	b.WriteString("</w:tblPr><w:tblGrid>")
	for _, w := range t.Widths {
		fmt.Fprintf(&b, `<w:gridCol w:w="%d"/>`, w)
	}
	b.WriteString("</w:tblGrid>")

	for _, row := range t.Rows {
		b.WriteString("<w:tr>")
		for i, c := range row {
			width := c.Width
			if width == 0 && i < len(t.Widths) {
				width = t.Widths[i]
			}
			b.WriteString("<w:tc><w:tcPr>")
			fmt.Fprintf(&b, `<w:tcW w:w="%d" w:type="dxa"/>`, width)
			if c.RightBorder {
				b.WriteString(`<w:tcBorders><w:right w:val="single" w:sz="6" w:space="0" w:color="808080"/></w:tcBorders>`)
			}
			b.WriteString(`<w:vAlign w:val="top"/></w:tcPr>`)
			if len(c.Paras) == 0 {
				// OOXML requires at least one paragraph per cell.
				b.WriteString("<w:p/>")
			}
			for _, p := range c.Paras {
				b.WriteString(p.xml())
			}
			b.WriteString("</w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
	return b.String()
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

	// Calibri 10pt with zero paragraph spacing; everything else is set per run.
	stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="20"/><w:szCs w:val="20"/></w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults></w:styles>`

	documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

	// US-Letter with half-inch margins.
	documentFooter = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="720" w:right="720" w:bottom="720" w:left="720" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr></w:body></w:document>`

	noTableBorders = `<w:tblBorders><w:top w:val="none" w:sz="0" w:space="0" w:color="auto"/><w:left w:val="none" w:sz="0" w:space="0" w:color="auto"/><w:bottom w:val="none" w:sz="0" w:space="0" w:color="auto"/><w:right w:val="none" w:sz="0" w:space="0" w:color="auto"/><w:insideH w:val="none" w:sz="0" w:space="0" w:color="auto"/><w:insideV w:val="none" w:sz="0" w:space="0" w:color="auto"/></w:tblBorders>`
)
