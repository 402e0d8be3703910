package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// block is one top-level markdown token. The set is flat: no nesting.
type block interface{ isBlock() }

type headingBlock struct {
	Depth int
	Text  string
}

type paragraphBlock struct {
	Lines []string
}

type listItemBlock struct {
	Marker string // "" for bullets, "3." for ordered items
	Text   string
}

type blankBlock struct{}

func (headingBlock) isBlock()   {}
func (paragraphBlock) isBlock() {}
func (listItemBlock) isBlock()  {}
func (blankBlock) isBlock()     {}

var (
	headingRe = regexp.MustCompile(`^(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
	bulletRe  = regexp.MustCompile(`^[ \t]{0,3}[-*+][ \t]+(.*)$`)
	orderedRe = regexp.MustCompile(`^[ \t]{0,3}(\d{1,9})[.)][ \t]+(.*)$`)
	ruleRe    = regexp.MustCompile(`^[ \t]{0,3}(?:(?:\*[ \t]*){3,}|(?:-[ \t]*){3,}|(?:_[ \t]*){3,})$`)
)

// lexMarkdown splits src into blocks line by line. Runs of blank lines and
// thematic breaks collapse into one blankBlock; leading and trailing blanks
// are dropped.
func lexMarkdown(src string) []block {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")

	var blocks []block
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)

		var last block
		if n := len(blocks); n > 0 {
			last = blocks[n-1]
		}

		if trimmed == "" || ruleRe.MatchString(line) {
			if _, isBlank := last.(blankBlock); last != nil && !isBlank {
				blocks = append(blocks, blankBlock{})
			}
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil && leadingSpaces(line) < 4 {
			blocks = append(blocks, headingBlock{Depth: len(m[1]), Text: strings.TrimSpace(m[2])})
			continue
		}
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, &listItemBlock{Text: strings.TrimSpace(m[1])})
			continue
		}
		if m := orderedRe.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, &listItemBlock{Marker: m[1] + ".", Text: strings.TrimSpace(m[2])})
			continue
		}

		switch prev := last.(type) {
		case *paragraphBlock:
			prev.Lines = append(prev.Lines, trimmed)
		case *listItemBlock:
			prev.Text += " " + trimmed
		default:
			blocks = append(blocks, &paragraphBlock{Lines: []string{trimmed}})
		}
	}

	for len(blocks) > 0 {
		if _, isBlank := blocks[len(blocks)-1].(blankBlock); !isBlank {
			break
		}
		blocks = blocks[:len(blocks)-1]
	}
	return blocks
}

func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

type runStyle int

const (
	stylePlain runStyle = iota
	styleBold
	styleItalic
	styleCode
)

type run struct {
	Text  string
	Style runStyle
}

// parseInline splits text into styled runs in one left-to-right pass.
// Markers without a closing partner are kept as literal text.
func parseInline(s string) []run {
	var (
		runs  []run
		plain strings.Builder
	)
	flush := func() {
		if plain.Len() > 0 {
			runs = append(runs, run{Text: plain.String()})
			plain.Reset()
		}
	}
	emit := func(text string, style runStyle) {
		flush()
		runs = append(runs, run{Text: text, Style: style})
	}

	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "**"):
			if end := strings.Index(s[i+2:], "**"); end > 0 && flanked(s[i+2:i+2+end]) {
				emit(s[i+2:i+2+end], styleBold)
				i += end + 4
				continue
			}
			plain.WriteString("**")
			i += 2
			continue
		case s[i] == '`':
			if end := strings.IndexByte(s[i+1:], '`'); end > 0 {
				emit(s[i+1:i+1+end], styleCode)
				i += end + 2
				continue
			}
		case s[i] == '*':
			if end := strings.IndexByte(s[i+1:], '*'); end > 0 && flanked(s[i+1:i+1+end]) {
				emit(s[i+1:i+1+end], styleItalic)
				i += end + 2
				continue
			}
		}
		plain.WriteByte(s[i])
		i++
	}
	flush()
	return runs
}

// flanked reports whether emphasis content hugs its markers, so "2 * 3 * 4"
// stays plain.
func flanked(content string) bool {
	first, _ := utf8.DecodeRuneInString(content)
	last, _ := utf8.DecodeLastRuneInString(content)
	return !unicode.IsSpace(first) && !unicode.IsSpace(last)
}
