package pipeline

import (
	"context"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// PreviewCSS is the base stylesheet of the HTML preview. It approximates the
// default Word style set so the preview and the document look alike.
const PreviewCSS = `body{font-family:Calibri,Carlito,sans-serif;font-size:11pt;max-width:48em;margin:2em auto;line-height:1.4}
h1,h2,h3,h4,h5,h6{font-family:"Calibri Light",Carlito,sans-serif;color:#2f5496}
pre{background:#f6f8fa;padding:.6em;overflow:auto}
code{font-family:Consolas,"Liberation Mono",monospace}
table{border-collapse:collapse}td,th{border:1px solid #999;padding:.2em .5em}
blockquote{margin-left:1em;padding-left:1em;border-left:3px solid #ccc;color:#555}
img{max-width:100%}`

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// HighlightCSS returns the stylesheet for the chroma classes emitted by
// GoldmarkConverter, using the named chroma style ("github" when empty or
// unknown).
func HighlightCSS(styleName string) (string, error) {
	if styleName == "" {
		styleName = "github"
	}
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, styles.Get(styleName)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return b.String(), nil
}

// Compile-time interface check.
var _ CSSInjector = (*CSSInjection)(nil)
