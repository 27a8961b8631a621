package docx

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath is the node kind of inline and display math.
var KindMath = ast.NewNodeKind("Math")

// Math is a $...$ (inline) or $$...$$ (display) span.
type Math struct {
	ast.BaseInline
	Display bool
	Literal []byte
}

// Kind implements ast.Node.
func (n *Math) Kind() ast.NodeKind { return KindMath }

// Dump implements ast.Node.
func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Literal": string(n.Literal)}, nil)
}

// mathParser recognizes dollar-delimited math. A single-dollar span must
// not start or end with a space and its closing dollar must not be followed
// by a digit, so prices like "$5 and $10" stay text.
type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *mathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 2 {
		return nil
	}

	if line[1] == '$' {
		end := strings.Index(string(line[2:]), "$$")
		if end <= 0 {
			return nil
		}
		literal := line[2 : 2+end]
		block.Advance(end + 4)
		return &Math{Display: true, Literal: append([]byte(nil), literal...)}
	}

	if line[1] == ' ' || line[1] == '\t' {
		return nil
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] != '$' {
			continue
		}
		if line[i-1] == ' ' || line[i-1] == '\t' {
			return nil
		}
		if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
			return nil
		}
		literal := line[1:i]
		block.Advance(i + 1)
		return &Math{Literal: append([]byte(nil), literal...)}
	}
	return nil
}

type mathExtension struct{}

// Extend adds the math inline parser.
func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(&mathParser{}, 500)))
}

// MathFormatter renders math as Cambria Math runs, with common TeX commands
// replaced by their Unicode symbols. Display math sits on its own line.
type MathFormatter struct{}

// Capability implements Formatter.
func (MathFormatter) Capability() Capability { return CapabilityMath }

// CanHandle implements Formatter.
func (MathFormatter) CanHandle(n ast.Node) bool {
	return n.Kind() == KindMath
}

// Format implements Formatter.
func (MathFormatter) Format(w *Writer, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node, ok := n.(*Math)
	if !ok || !entering {
		return ast.WalkSkipChildren, nil
	}

	if node.Display && n.PreviousSibling() != nil {
		w.LineBreak()
	}
	w.WriteRun(TeXToUnicode(string(node.Literal)), RunProps{Style: "MathChar"})
	if node.Display && n.NextSibling() != nil {
		w.LineBreak()
	}
	return ast.WalkSkipChildren, nil
}

// texSymbols maps TeX commands to Unicode.
var texSymbols = strings.NewReplacer(
	`\alpha`, "α", `\beta`, "β", `\gamma`, "γ", `\delta`, "δ", `\epsilon`, "ε",
	`\theta`, "θ", `\lambda`, "λ", `\mu`, "μ", `\pi`, "π", `\sigma`, "σ",
	`\phi`, "φ", `\omega`, "ω", `\Delta`, "Δ", `\Sigma`, "Σ", `\Omega`, "Ω",
	`\times`, "×", `\cdot`, "·", `\div`, "÷", `\pm`, "±",
	`\leq`, "≤", `\geq`, "≥", `\neq`, "≠", `\approx`, "≈", `\equiv`, "≡",
	`\infty`, "∞", `\sum`, "∑", `\prod`, "∏", `\int`, "∫", `\partial`, "∂",
	`\sqrt`, "√", `\rightarrow`, "→", `\leftarrow`, "←", `\to`, "→",
	`\in`, "∈", `\forall`, "∀", `\exists`, "∃", `\cup`, "∪", `\cap`, "∩",
	`\{`, "{", `\}`, "}", `\,`, " ", `\;`, " ",
)

// superscripts and subscripts for single-character ^x and _x.
var (
	superscripts = map[rune]rune{
		'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
		'+': '⁺', '-': '⁻', 'n': 'ⁿ', 'i': 'ⁱ',
	}
	subscripts = map[rune]rune{
		'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆', '7': '₇', '8': '₈', '9': '₉',
		'+': '₊', '-': '₋', 'i': 'ᵢ', 'j': 'ⱼ', 'n': 'ₙ',
	}
)

// TeXToUnicode approximates a TeX math expression in plain Unicode.
// Unknown commands are kept verbatim.
func TeXToUnicode(tex string) string {
	s := texSymbols.Replace(strings.TrimSpace(tex))

	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '^' || r == '_') && i+1 < len(runes) {
			table := superscripts
			if r == '_' {
				table = subscripts
			}
			if mapped, ok := table[runes[i+1]]; ok {
				b.WriteRune(mapped)
				i++
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Compile-time interface check.
var _ Formatter = MathFormatter{}
