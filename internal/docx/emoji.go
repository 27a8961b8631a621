package docx

import (
	emojiast "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark/ast"
)

// emojiFont has glyphs for the emoji block on Windows and falls back
// elsewhere.
const emojiFont = "Segoe UI Emoji"

// EmojiFormatter renders :shortcode: emoji as Unicode text.
type EmojiFormatter struct{}

// Capability implements Formatter.
func (EmojiFormatter) Capability() Capability { return CapabilityEmoji }

// CanHandle implements Formatter.
func (EmojiFormatter) CanHandle(n ast.Node) bool {
	return n.Kind() == emojiast.KindEmoji
}

// Format implements Formatter.
func (EmojiFormatter) Format(w *Writer, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node, ok := n.(*emojiast.Emoji)
	if !ok || !entering {
		return ast.WalkSkipChildren, nil
	}

	text := ":" + string(node.ShortName) + ":"
	if node.Value != nil && len(node.Value.Unicode) > 0 {
		text = string(node.Value.Unicode)
	}
	rp := w.InlineProps()
	rp.Font = emojiFont
	w.WriteRun(text, rp)
	return ast.WalkSkipChildren, nil
}

// Compile-time interface check.
var _ Formatter = EmojiFormatter{}
