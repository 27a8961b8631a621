package docx

import "github.com/yuin/goldmark/ast"

// Capability names what a Formatter adds to the engine.
type Capability string

// Formatter capabilities, in default order.
const (
	CapabilityTable Capability = "table"
	CapabilityList  Capability = "list"
	CapabilityMath  Capability = "math"
	CapabilityEmoji Capability = "emoji"
	CapabilityImage Capability = "image"
	CapabilityCode  Capability = "code"
)

// Formatter renders the node kinds of one capability.
//
// Format is called twice per node, entering and leaving, like ast.Walk. It
// returns ast.WalkSkipChildren when it has consumed the node's children
// itself; the leaving call is then still made.
type Formatter interface {
	Capability() Capability
	CanHandle(n ast.Node) bool
	Format(w *Writer, n ast.Node, entering bool) (ast.WalkStatus, error)
}

// DefaultFormatters returns the full formatter list in dispatch order.
func DefaultFormatters() []Formatter {
	return []Formatter{
		TableFormatter{},
		ListFormatter{},
		MathFormatter{},
		EmojiFormatter{},
		ImageFormatter{},
		CodeFormatter{},
	}
}

// Without returns formatters minus those with the given capabilities.
func Without(formatters []Formatter, caps ...Capability) []Formatter {
	out := make([]Formatter, 0, len(formatters))
next:
	for _, f := range formatters {
		for _, c := range caps {
			if f.Capability() == c {
				continue next
			}
		}
		out = append(out, f)
	}
	return out
}
