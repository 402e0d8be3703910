package services

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/justsurfingit/hunt-assistant/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	svc := NewResumeService()

	for _, mime := range []string{"text/plain", "image/png", "application/msword", ""} {
		t.Run(mime, func(t *testing.T) {
			_, err := svc.ExtractText([]byte("%PDF-1.4 whatever"), mime)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
			assert.NotErrorIs(t, err, ErrExtractionFailed)
		})
	}
}

func TestExtractTextDOCX(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Jane</w:t></w:r><w:r><w:t xml:space="preserve"> Doe</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Skills:</w:t></w:r><w:r><w:tab/><w:t>Go &amp; SQL</w:t></w:r></w:p>
</w:body></w:document>`

	text, err := NewResumeService().ExtractText(buildDocx(t, doc), MimeDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills:\tGo & SQL", text)
}

func TestExtractTextPDF(t *testing.T) {
	data := testutil.MinimalPDF("Ada Lovelace", "Go engineer")

	text, err := NewResumeService().ExtractText(data, MimePDF)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace\nGo engineer", text)
}

func TestExtractTextPDFWithoutText(t *testing.T) {
	_, err := NewResumeService().ExtractText(testutil.MinimalPDF(), MimePDF)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtractTextFoldsCompatibilityForms(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>ﬁnance ｏﬃce</w:t></w:r></w:p></w:body></w:document>`

	text, err := NewResumeService().ExtractText(buildDocx(t, doc), MimeDOCX)
	require.NoError(t, err)
	assert.Equal(t, "finance office", text)
}

func TestExtractTextMalformed(t *testing.T) {
	svc := NewResumeService()

	tests := []struct {
		name string
		data []byte
		mime string
	}{
		{name: "pdf without header", data: []byte("this is not a pdf"), mime: MimePDF},
		{name: "truncated pdf", data: []byte("%PDF-1.7\n1 0 obj\n<<"), mime: MimePDF},
		{name: "docx that is not a zip", data: []byte("PK? nope"), mime: MimeDOCX},
		{name: "zip without document part", data: func() []byte {
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			_, _ = zw.Create("word/styles.xml")
			_ = zw.Close()
			return buf.Bytes()
		}(), mime: MimeDOCX},
		{name: "broken document xml", data: buildDocx(t, "<w:document><w:body><w:p>"), mime: MimeDOCX},
		{name: "docx with no text", data: buildDocx(t, "<w:document><w:body><w:p/></w:body></w:document>"), mime: MimeDOCX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ExtractText(tt.data, tt.mime)
			assert.ErrorIs(t, err, ErrExtractionFailed)
			assert.NotErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}
