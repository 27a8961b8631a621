package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// SeparatorKind selects the fragment placed between joined documents.
type SeparatorKind string

// Separator kinds. The zero value behaves as SeparatorPageBreak.
const (
	SeparatorPageBreak SeparatorKind = "pagebreak"
	SeparatorRule      SeparatorKind = "rule"
	SeparatorNone      SeparatorKind = "none"
)

// PageBreakMarker is the HTML comment the document engine turns into a hard
// page break.
const PageBreakMarker = "<!-- pagebreak -->"

// ErrInvalidSeparator indicates an unknown separator name.
var ErrInvalidSeparator = errors.New("invalid separator")

// String returns the separator name, resolving the zero value.
func (k SeparatorKind) String() string {
	if k == "" {
		return string(SeparatorPageBreak)
	}
	return string(k)
}

// Fragment returns the text inserted between two documents.
func (k SeparatorKind) Fragment() string {
	switch k {
	case SeparatorRule:
		return "\n\n---\n\n"
	case SeparatorNone:
		return ""
	default:
		return "\n\n" + PageBreakMarker + "\n\n"
	}
}

// Validate returns ErrInvalidSeparator for names other than the known kinds.
func (k SeparatorKind) Validate() error {
	switch k {
	case "", SeparatorPageBreak, SeparatorRule, SeparatorNone:
		return nil
	}
	return fmt.Errorf("%w: %q (must be pagebreak, rule, or none)", ErrInvalidSeparator, string(k))
}

// ParseSeparator converts a user-supplied name into a SeparatorKind.
// Matching is case-insensitive; "page-break" and "hr" are accepted aliases.
func ParseSeparator(s string) (SeparatorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pagebreak", "page-break":
		return SeparatorPageBreak, nil
	case "rule", "hr":
		return SeparatorRule, nil
	case "none":
		return SeparatorNone, nil
	}
	return "", fmt.Errorf("%w: %q (must be pagebreak, rule, or none)", ErrInvalidSeparator, s)
}

// Join concatenates bodies in order with kind's fragment strictly between
// consecutive bodies, never before the first or after the last.
func Join(bodies []string, kind SeparatorKind) string {
	return strings.Join(bodies, kind.Fragment())
}
