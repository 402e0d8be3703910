package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []block
	}{
		{
			name: "heading paragraph list",
			in:   "# Title\n\nSome **bold** text.\n\n- item one\n- item two",
			want: []block{
				headingBlock{Depth: 1, Text: "Title"},
				blankBlock{},
				&paragraphBlock{Lines: []string{"Some **bold** text."}},
				blankBlock{},
				&listItemBlock{Text: "item one"},
				&listItemBlock{Text: "item two"},
			},
		},
		{
			name: "blank runs collapse and edges are dropped",
			in:   "\n\n\nDear Hiring Manager,\n\n\n\nSincerely,\nAda\n\n",
			want: []block{
				&paragraphBlock{Lines: []string{"Dear Hiring Manager,"}},
				blankBlock{},
				&paragraphBlock{Lines: []string{"Sincerely,", "Ada"}},
			},
		},
		{
			name: "deep headings and closing hashes",
			in:   "###### Six ######\n## Two ##",
			want: []block{
				headingBlock{Depth: 6, Text: "Six"},
				headingBlock{Depth: 2, Text: "Two"},
			},
		},
		{
			name: "hash without space is text",
			in:   "#hashtag",
			want: []block{&paragraphBlock{Lines: []string{"#hashtag"}}},
		},
		{
			name: "ordered items and lazy continuation",
			in:   "1. first\n2) second\n   continues here",
			want: []block{
				&listItemBlock{Marker: "1.", Text: "first"},
				&listItemBlock{Marker: "2.", Text: "second continues here"},
			},
		},
		{
			name: "thematic break is a spacer",
			in:   "above\n\n* * *\n\nbelow",
			want: []block{
				&paragraphBlock{Lines: []string{"above"}},
				blankBlock{},
				&paragraphBlock{Lines: []string{"below"}},
			},
		},
		{
			name: "italic at line start is not a bullet",
			in:   "*Note* this",
			want: []block{&paragraphBlock{Lines: []string{"*Note* this"}}},
		},
		{
			name: "windows line endings",
			in:   "# A\r\n\r\nB",
			want: []block{headingBlock{Depth: 1, Text: "A"}, blankBlock{}, &paragraphBlock{Lines: []string{"B"}}},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexMarkdown(tt.in))
		})
	}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []run
	}{
		{
			name: "plain",
			in:   "just text",
			want: []run{{Text: "just text"}},
		},
		{
			name: "bold and italic amid plain",
			in:   "Some **bold** and *italic* text.",
			want: []run{
				{Text: "Some "},
				{Text: "bold", Style: styleBold},
				{Text: " and "},
				{Text: "italic", Style: styleItalic},
				{Text: " text."},
			},
		},
		{
			name: "inline code keeps inner spaces",
			in:   "run `go test ./...` now",
			want: []run{
				{Text: "run "},
				{Text: "go test ./...", Style: styleCode},
				{Text: " now"},
			},
		},
		{
			name: "unmatched markers stay literal",
			in:   "a **b and `c",
			want: []run{{Text: "a **b and `c"}},
		},
		{
			name: "spaced asterisks are arithmetic",
			in:   "2 * 3 * 4",
			want: []run{{Text: "2 * 3 * 4"}},
		},
		{
			name: "adjacent spans",
			in:   "**A***b*`c`",
			want: []run{
				{Text: "A", Style: styleBold},
				{Text: "b", Style: styleItalic},
				{Text: "c", Style: styleCode},
			},
		},
		{
			name: "utf8 content",
			in:   "Résumé **très** bien",
			want: []run{
				{Text: "Résumé "},
				{Text: "très", Style: styleBold},
				{Text: " bien"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseInline(tt.in))
		})
	}
}
