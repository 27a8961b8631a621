package diagram

import (
	"encoding/base64"
	"strings"
)

// imageAlt is the alt text of every generated diagram image.
const imageAlt = "diagram"

// ImageReference returns a Markdown image whose target is png inlined as a
// data URI. The reference is padded with blank lines so it always forms its
// own paragraph.
func ImageReference(png []byte) string {
	var b strings.Builder
	b.Grow(base64.StdEncoding.EncodedLen(len(png)) + 48)
	b.WriteString("\n\n![")
	b.WriteString(imageAlt)
	b.WriteString("](data:image/png;base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(png))
	b.WriteString(")\n\n")
	return b.String()
}

// Rewrite replaces each block of text with the matching image.
//
// blocks must be in ascending, non-overlapping order, as returned by
// Scanner.Scan, and images[i] belongs to blocks[i]. A nil image leaves its
// block untouched. The output is assembled in one forward pass over the
// original text, so every offset stays valid no matter how much earlier
// replacements grow or shrink the document.
func Rewrite(text string, blocks []Block, images [][]byte) string {
	if len(blocks) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	pos := 0
	for i, block := range blocks {
		var img []byte
		if i < len(images) {
			img = images[i]
		}
		if img == nil {
			continue
		}
		b.WriteString(text[pos:block.Start])
		b.WriteString(ImageReference(img))
		pos = block.End
	}
	b.WriteString(text[pos:])

	return b.String()
}
