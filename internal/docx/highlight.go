package docx

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlightStyle is the chroma style code colours are taken from.
const highlightStyle = "github"

// Span is a run of code sharing one colour and weight.
type Span struct {
	Text   string
	Color  string // RRGGBB, empty for the default colour
	Bold   bool
	Italic bool
}

// Highlight tokenizes source with the chroma lexer for lang and returns one
// slice of spans per line. Unknown languages use the plain-text lexer, so
// the result always has the same lines as source.
func Highlight(source, lang string) [][]Span {
	lexer := lexers.Get(lang)
	if lang == "" || lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(highlightStyle)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plainLines(source)
	}

	var lines [][]Span
	for _, tokens := range chroma.SplitTokensIntoLines(it.Tokens()) {
		var line []Span
		for _, tok := range tokens {
			text := strings.TrimRight(tok.Value, "\n")
			if text == "" {
				continue
			}
			entry := style.Get(tok.Type)
			span := Span{
				Text:   text,
				Bold:   entry.Bold == chroma.Yes,
				Italic: entry.Italic == chroma.Yes,
			}
			if entry.Colour.IsSet() {
				span.Color = strings.TrimPrefix(entry.Colour.String(), "#")
			}
			line = append(line, span)
		}
		lines = append(lines, line)
	}

	// A trailing newline leaves an empty last line.
	if n := len(lines); n > 1 && len(lines[n-1]) == 0 && strings.HasSuffix(source, "\n") {
		lines = lines[:n-1]
	}
	return lines
}

func plainLines(source string) [][]Span {
	var lines [][]Span
	for _, l := range strings.Split(strings.TrimSuffix(source, "\n"), "\n") {
		lines = append(lines, []Span{{Text: l}})
	}
	return lines
}
