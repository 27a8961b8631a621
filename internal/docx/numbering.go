package docx

import (
	"fmt"
	"strings"
)

// Abstract numbering definitions shared by all lists.
const (
	abstractBullet  = 0
	abstractDecimal = 1
)

var (
	bulletGlyphs   = []string{"•", "◦", "▪"}
	orderedFormats = []string{"decimal", "lowerLetter", "lowerRoman"}
)

type numInstance struct {
	abstractID int
	level      int
	start      int // 0 for bullets
}

// numbering collects one w:num per Markdown list. Every ordered list gets a
// start override so that separate lists restart instead of continuing.
type numbering struct {
	instances []numInstance
}

// add registers a list and returns its 1-based numId.
func (n *numbering) add(ordered bool, start, level int) int {
	inst := numInstance{abstractID: abstractBullet, level: level}
	if ordered {
		inst.abstractID = abstractDecimal
		inst.start = max(start, 0)
	}
	n.instances = append(n.instances, inst)
	return len(n.instances)
}

// xml returns word/numbering.xml.
func (n *numbering) xml() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)

	writeAbstract(&b, abstractBullet, func(lvl int) (string, string) {
		return "bullet", bulletGlyphs[lvl%len(bulletGlyphs)]
	})
	writeAbstract(&b, abstractDecimal, func(lvl int) (string, string) {
		return orderedFormats[lvl%len(orderedFormats)], fmt.Sprintf("%%%d.", lvl+1)
	})

	for i, inst := range n.instances {
		fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="%d"/>`, i+1, inst.abstractID)
		if inst.abstractID == abstractDecimal {
			fmt.Fprintf(&b, `<w:lvlOverride w:ilvl="%d"><w:startOverride w:val="%d"/></w:lvlOverride>`, inst.level, inst.start)
		}
		b.WriteString(`</w:num>`)
	}

	b.WriteString(`</w:numbering>`)
	return []byte(b.String())
}

func writeAbstract(b *strings.Builder, id int, level func(int) (format, text string)) {
	fmt.Fprintf(b, `<w:abstractNum w:abstractNumId="%d"><w:multiLevelType w:val="hybridMultilevel"/>`, id)
	for lvl := 0; lvl <= maxListLevel; lvl++ {
		format, text := level(lvl)
		fmt.Fprintf(b, `<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="%s"/><w:lvlText w:val="%s"/><w:lvlJc w:val="left"/>`+
			`<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr></w:lvl>`,
			lvl, format, escapeAttr(text), listIndent*(lvl+1))
	}
	b.WriteString(`</w:abstractNum>`)
}
