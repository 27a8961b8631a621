package docx

import (
	"fmt"
	"math"
	"strings"
)

// Twips per inch (1/20 point) and EMUs per twip, the two units OOXML mixes.
const (
	twipsPerInch = 1440
	emuPerTwip   = 635
	emuPerPixel  = 9525 // at 96 DPI
)

// Page is the section geometry in twips.
type Page struct {
	Width     int
	Height    int
	Margin    int // all four sides
	Landscape bool
}

// paperSizes maps size names to portrait width and height in twips.
var paperSizes = map[string][2]int{
	"letter": {12240, 15840},
	"a4":     {11906, 16838},
	"legal":  {12240, 20160},
}

// DefaultPage is US Letter, portrait, one-inch margins.
func DefaultPage() Page {
	return Page{Width: 12240, Height: 15840, Margin: twipsPerInch}
}

// PageFor builds a Page from a paper size name, an orientation and a margin
// in inches.
func PageFor(size, orientation string, marginInches float64) (Page, error) {
	dims, ok := paperSizes[strings.ToLower(size)]
	if !ok {
		return Page{}, fmt.Errorf("%w: unknown page size %q", ErrInvalidPage, size)
	}

	p := Page{Width: dims[0], Height: dims[1], Margin: int(math.Round(marginInches * twipsPerInch))}
	switch strings.ToLower(orientation) {
	case "", "portrait":
	case "landscape":
		p.Width, p.Height = p.Height, p.Width
		p.Landscape = true
	default:
		return Page{}, fmt.Errorf("%w: unknown orientation %q", ErrInvalidPage, orientation)
	}

	if p.Margin < 0 || 2*p.Margin >= p.Width || 2*p.Margin >= p.Height {
		return Page{}, fmt.Errorf("%w: margin %.2fin leaves no content area", ErrInvalidPage, marginInches)
	}
	return p, nil
}

// contentWidthEMU is the usable width between the margins.
func (p Page) contentWidthEMU() int {
	return (p.Width - 2*p.Margin) * emuPerTwip
}

// contentHeightEMU is the usable height between the margins.
func (p Page) contentHeightEMU() int {
	return (p.Height - 2*p.Margin) * emuPerTwip
}

// sectionXML returns the w:sectPr closing the document body.
func (p Page) sectionXML() string {
	orient := ""
	if p.Landscape {
		orient = ` w:orient="landscape"`
	}
	return fmt.Sprintf(`<w:sectPr><w:pgSz w:w="%d" w:h="%d"%s/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`+
		`</w:sectPr>`,
		p.Width, p.Height, orient, p.Margin, p.Margin, p.Margin, p.Margin)
}
