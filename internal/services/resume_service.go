package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ResumeService turns uploaded résumé files into plain text.
type ResumeService struct{}

func NewResumeService() *ResumeService {
	return &ResumeService{}
}

// IsSupported reports whether ExtractText accepts the mime type.
func IsSupported(mimeType string) bool {
	return mimeType == MimePDF || mimeType == MimeDOCX
}

// ExtractText returns the text content of a PDF or DOCX document. Any other
// mime type fails with ErrUnsupportedFormat without looking at the bytes.
func (s *ResumeService) ExtractText(data []byte, mimeType string) (string, error) {
	var (
		text string
		err  error
	)
	switch mimeType {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	// NFKC folds the ligatures and full-width forms PDF producers emit
	text = strings.TrimSpace(norm.NFKC.String(text))
	if text == "" {
		return "", fmt.Errorf("%w: document contains no text", ErrExtractionFailed)
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// the parser panics on some corrupt inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document part: %w", err)
		}
		defer rc.Close()
		return wordText(rc)
	}
	return "", errors.New("docx has no word/document.xml part")
}

// wordText collects the w:t runs of a WordprocessingML body. Paragraphs end
// with a newline; tabs and breaks are kept.
func wordText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document part: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tabs":
				// tab stop definitions, not content
				if err := dec.Skip(); err != nil {
					return "", fmt.Errorf("parse document part: %w", err)
				}
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}
	return b.String(), nil
}
