package diagram

import "strings"

// DefaultLanguage is the fence info string that marks a diagram block.
const DefaultLanguage = "mermaid"

// Block is one fenced diagram region of a document.
// Start and End are half-open byte offsets into the scanned text: Start is
// the first byte of the opening fence line, End is the byte just past the
// closing fence (the line's trailing newline is not part of the block).
type Block struct {
	Source string // body between the fences, whitespace-trimmed
	Start  int
	End    int
}

// Scanner locates diagram blocks in Markdown text.
type Scanner struct {
	language string
}

// NewScanner creates a Scanner for fences tagged with language.
// An empty language selects DefaultLanguage. Matching is case-insensitive.
func NewScanner(language string) *Scanner {
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}
	return &Scanner{language: language}
}

// Language returns the fence tag this scanner matches.
func (s *Scanner) Language() string {
	return s.language
}

// fence describes an opening fence line.
type fence struct {
	char   byte
	length int
	lang   string
}

// Scan returns the diagram blocks of text in ascending, non-overlapping order.
// Fences of other languages are skipped as a whole so that a diagram fence
// quoted inside another code block is not matched. A fence without a closing
// line is treated as ordinary text.
func (s *Scanner) Scan(text string) []Block {
	var blocks []Block

	pos := 0
	for pos < len(text) {
		lineEnd, next := lineBounds(text, pos)
		open, ok := parseOpeningFence(text[pos:lineEnd])
		if !ok {
			pos = next
			continue
		}

		closeStart, closeEnd, found := findClosingFence(text, next, open)
		if !found {
			pos = next
			continue
		}

		if strings.EqualFold(open.lang, s.language) {
			blocks = append(blocks, Block{
				Source: strings.TrimSpace(text[next:closeStart]),
				Start:  pos,
				End:    closeEnd,
			})
		}

		_, pos = lineBounds(text, closeStart)
	}

	return blocks
}

// LineOf returns the 1-based line number of offset in text.
func LineOf(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}

// findClosingFence searches for the line closing open, starting at from.
// Returns the start of the closing line and the end of its content.
func findClosingFence(text string, from int, open fence) (int, int, bool) {
	pos := from
	for pos < len(text) {
		lineEnd, next := lineBounds(text, pos)
		if isClosingFence(text[pos:lineEnd], open) {
			return pos, lineEnd, true
		}
		pos = next
	}
	return 0, 0, false
}

// lineBounds returns the end of the line starting at pos (excluding '\n')
// and the start of the following line.
func lineBounds(text string, pos int) (end, next int) {
	i := strings.IndexByte(text[pos:], '\n')
	if i < 0 {
		return len(text), len(text)
	}
	return pos + i, pos + i + 1
}

// parseOpeningFence recognizes ``` or ~~~ fences indented by at most three
// spaces. The language is the first word of the info string.
func parseOpeningFence(line string) (fence, bool) {
	line = strings.TrimSuffix(line, "\r")
	rest, ok := trimIndent(line)
	if !ok || len(rest) < 3 {
		return fence{}, false
	}

	c := rest[0]
	if c != '`' && c != '~' {
		return fence{}, false
	}
	n := countRun(rest, c)
	if n < 3 {
		return fence{}, false
	}

	info := strings.TrimSpace(rest[n:])
	if c == '`' && strings.ContainsRune(info, '`') {
		return fence{}, false
	}

	var lang string
	if fields := strings.Fields(info); len(fields) > 0 {
		lang = fields[0]
	}
	return fence{char: c, length: n, lang: lang}, true
}

// isClosingFence reports whether line closes open: same character, at least
// as long, nothing but whitespace after it.
func isClosingFence(line string, open fence) bool {
	line = strings.TrimSuffix(line, "\r")
	rest, ok := trimIndent(line)
	if !ok || rest == "" || rest[0] != open.char {
		return false
	}
	n := countRun(rest, open.char)
	return n >= open.length && strings.TrimSpace(rest[n:]) == ""
}

// trimIndent strips up to three leading spaces. A fourth space makes the line
// an indented code line, never a fence.
func trimIndent(line string) (string, bool) {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	if i > 3 {
		return "", false
	}
	return line[i:], true
}

func countRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}
