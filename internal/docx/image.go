package docx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxImageSize caps how much of a local image file is embedded.
const maxImageSize = 32 << 20

// ImageFormatter embeds Markdown and raw HTML images. Data URIs and local
// files in PNG, JPEG or GIF format are embedded at their pixel size, scaled
// down to fit the page; anything else (remote URLs, SVG, missing files) is
// replaced by its alt text.
type ImageFormatter struct{}

// Capability implements Formatter.
func (ImageFormatter) Capability() Capability { return CapabilityImage }

// CanHandle implements Formatter.
func (ImageFormatter) CanHandle(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindImage, ast.KindRawHTML, ast.KindHTMLBlock:
		return true
	}
	return false
}

// Format implements Formatter. Raw HTML without <img> elements is passed
// on to the core walker.
func (ImageFormatter) Format(w *Writer, n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Image:
		if entering {
			w.Image(string(node.Destination), altText(node, w.source))
		}

	case *ast.RawHTML:
		imgs := imgTags(rawHTMLText(node, w.source))
		if len(imgs) == 0 {
			return w.formatCore(n, entering)
		}
		if entering {
			for _, img := range imgs {
				w.Image(img.src, img.alt)
			}
		}

	case *ast.HTMLBlock:
		imgs := imgTags(string(blockText(node, w.source)))
		if len(imgs) == 0 {
			return w.formatCore(n, entering)
		}
		if entering {
			w.OpenParagraph(w.ContextParagraph())
			for _, img := range imgs {
				w.Image(img.src, img.alt)
			}
			w.CloseParagraph()
		}
	}
	return ast.WalkSkipChildren, nil
}

// Image embeds the image at dest inline, or writes alt as italic text when
// the image cannot be embedded.
func (w *Writer) Image(dest, alt string) {
	data, ext, err := w.loadImage(dest)
	if err != nil {
		if alt == "" {
			alt = dest
		}
		w.WriteRun(alt, RunProps{Italic: true})
		return
	}

	cfg, _, _ := image.DecodeConfig(bytes.NewReader(data))
	cx, cy := fitImage(cfg.Width, cfg.Height, w.page.contentWidthEMU(), w.page.contentHeightEMU())
	relID := w.AddImage(data, ext)
	id := w.NextDrawingID()

	w.ensureParagraph()
	fmt.Fprintf(&w.body, `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Picture %d" descr="%s"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="%d" name="image%d.%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		cx, cy, id, id, escapeAttr(alt), id, id, ext, relID, cx, cy)
}

// loadImage returns image bytes and their file extension.
func (w *Writer) loadImage(dest string) ([]byte, string, error) {
	var data []byte
	var err error

	lower := strings.ToLower(dest)
	switch {
	case strings.HasPrefix(lower, "data:"):
		data, err = decodeDataURI(dest)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"), strings.HasPrefix(dest, "//"):
		return nil, "", fmt.Errorf("%w: remote image %s", errImageUnsupported, dest)
	default:
		data, err = w.readLocalImage(dest)
	}
	if err != nil {
		return nil, "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errImageUnsupported, err)
	}
	return data, format, nil
}

func (w *Writer) readLocalImage(dest string) ([]byte, error) {
	path := dest
	if u, err := url.Parse(dest); err == nil && u.Scheme == "file" {
		path = u.Path
	} else if unescaped, err := url.PathUnescape(dest); err == nil {
		path = unescaped
	}
	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) && w.sourceDir != "" {
		path = filepath.Join(w.sourceDir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errImageUnsupported, err)
	}
	if !info.Mode().IsRegular() || info.Size() > maxImageSize {
		return nil, fmt.Errorf("%w: %s", errImageUnsupported, path)
	}
	return os.ReadFile(path) // #nosec G304 -- images referenced by the document being converted
}

// decodeDataURI decodes data:[<mediatype>][;base64],<data>.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URI", errImageUnsupported)
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Join(strings.Fields(payload), "")
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errImageUnsupported, err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errImageUnsupported, err)
	}
	return []byte(data), nil
}

// fitImage converts pixel dimensions to EMUs, scaling down to fit maxW x maxH
// while keeping the aspect ratio. Unknown dimensions get a square of a third
// of the width.
func fitImage(px, py, maxW, maxH int) (int, int) {
	if px <= 0 || py <= 0 {
		side := maxW / 3
		return side, side
	}
	cx := int64(px) * emuPerPixel
	cy := int64(py) * emuPerPixel
	if cx > int64(maxW) {
		cy = cy * int64(maxW) / cx
		cx = int64(maxW)
	}
	if cy > int64(maxH) {
		cx = cx * int64(maxH) / cy
		cy = int64(maxH)
	}
	return int(max(cx, 1)), int(max(cy, 1))
}

type imgTag struct {
	src string
	alt string
}

// imgTags extracts the <img> elements of an HTML fragment.
func imgTags(fragment string) []imgTag {
	var tags []imgTag
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return tags
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		if tok.DataAtom != atom.Img {
			continue
		}
		var img imgTag
		for _, a := range tok.Attr {
			switch a.Key {
			case "src":
				img.src = a.Val
			case "alt":
				img.alt = a.Val
			}
		}
		if img.src != "" {
			tags = append(tags, img)
		}
	}
}

// Compile-time interface check.
var _ Formatter = ImageFormatter{}
