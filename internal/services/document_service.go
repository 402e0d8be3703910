package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExportFileName is the download name of rendered cover letters.
const ExportFileName = "cover-letter.docx"

const (
	maxHeadingLevel = 5
	bulletGlyph     = "•"
	monospaceFont   = "Courier New"
)

// fixed entry time so identical markdown yields identical bytes
var zipModTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DocumentService renders markdown into Word documents.
type DocumentService struct{}

func NewDocumentService() *DocumentService {
	return &DocumentService{}
}

// RenderCoverLetter converts markdown into a single-section DOCX document.
func (s *DocumentService) RenderCoverLetter(markdown string) ([]byte, error) {
	var body strings.Builder
	for _, b := range lexMarkdown(markdown) {
		switch blk := b.(type) {
		case headingBlock:
			level := blk.Depth
			if level > maxHeadingLevel {
				level = maxHeadingLevel
			}
			body.WriteString(`<w:p><w:pPr><w:pStyle w:val="Heading` + strconv.Itoa(level) + `"/></w:pPr>`)
			for _, r := range parseInline(blk.Text) {
				writeRun(&body, r)
			}
			body.WriteString(`</w:p>`)

		case *paragraphBlock:
			body.WriteString(`<w:p>`)
			for i, line := range blk.Lines {
				if i > 0 {
					body.WriteString(`<w:r><w:br/></w:r>`)
				}
				for _, r := range parseInline(line) {
					writeRun(&body, r)
				}
			}
			body.WriteString(`</w:p>`)

		case *listItemBlock:
			marker := bulletGlyph
			if blk.Marker != "" {
				marker = blk.Marker
			}
			body.WriteString(`<w:p><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr>`)
			writeRun(&body, run{Text: marker + " "})
			for _, r := range parseInline(blk.Text) {
				writeRun(&body, r)
			}
			body.WriteString(`</w:p>`)

		case blankBlock:
			body.WriteString(`<w:p/>`)
		}
	}

	doc := documentHeader + body.String() + documentFooter
	return packageDocx(map[string]string{
		"[Content_Types].xml":          contentTypesXML,
		"_rels/.rels":                  rootRelsXML,
		"word/_rels/document.xml.rels": documentRelsXML,
		"word/styles.xml":              stylesXML,
		"word/document.xml":            doc,
	})
}

func writeRun(b *strings.Builder, r run) {
	b.WriteString(`<w:r>`)
	switch r.Style {
	case styleBold:
		b.WriteString(`<w:rPr><w:b/></w:rPr>`)
	case styleItalic:
		b.WriteString(`<w:rPr><w:i/></w:rPr>`)
	case styleCode:
		b.WriteString(`<w:rPr><w:rFonts w:ascii="` + monospaceFont + `" w:hAnsi="` + monospaceFont + `" w:cs="` + monospaceFont + `"/></w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(r.Text))
	b.WriteString(`</w:t></w:r>`)
}

// packageDocx zips the parts in a fixed order.
func packageDocx(parts map[string]string) ([]byte, error) {
	order := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/document.xml",
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: zipModTime,
		})
		if err != nil {
			return nil, fmt.Errorf("docx part %s: %w", name, err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			return nil, fmt.Errorf("docx part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const documentHeader = xmlDecl +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `<w:sectPr>` +
	`<w:pgSz w:w="12240" w:h="15840"/>` +
	`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
	`</w:sectPr></w:body></w:document>`

const contentTypesXML = xmlDecl +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const rootRelsXML = xmlDecl +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlDecl +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

var stylesXML = xmlDecl +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr>` +
	`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/>` +
	`</w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	headingStyles()

func headingStyles() string {
	// half-point sizes for Heading1..Heading5
	sizes := [maxHeadingLevel]int{32, 28, 26, 24, 22}
	var b strings.Builder
	for i, size := range sizes {
		level := strconv.Itoa(i + 1)
		b.WriteString(`<w:style w:type="paragraph" w:styleId="Heading` + level + `">`)
		b.WriteString(`<w:name w:val="heading ` + level + `"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`)
		b.WriteString(`<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="80"/><w:outlineLvl w:val="` + strconv.Itoa(i) + `"/></w:pPr>`)
		b.WriteString(`<w:rPr><w:b/><w:sz w:val="` + strconv.Itoa(size) + `"/></w:rPr>`)
		b.WriteString(`</w:style>`)
	}
	b.WriteString(`</w:styles>`)
	return b.String()
}
