package md2docx

import (
	"time"

	"github.com/alnah/go-md2docx/internal/diagram"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout     time.Duration
	cacheDir    string
	rendererBin string
	renderer    diagram.Renderer
	language    string
	scale       int
	background  string
	workers     int
	style       string
	assetPath   string
	page        *PageSettings
}

// defaultTimeout bounds one conversion, diagram rendering included.
const defaultTimeout = 2 * time.Minute

// WithTimeout sets the per-conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2docx: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithCacheDir sets the directory rendered diagrams are cached in.
// Defaults to <user cache dir>/go-md2docx/diagrams.
func WithCacheDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.cacheDir = dir
	}
}

// WithRendererBin sets the diagram renderer executable. Defaults to the
// MD2DOCX_RENDERER_BIN environment variable, then "mmdc".
func WithRendererBin(bin string) Option {
	return func(c *Converter) {
		c.cfg.rendererBin = bin
	}
}

// WithDiagramRenderer replaces the renderer subprocess, e.g. with a stub in
// tests. It takes precedence over WithRendererBin.
func WithDiagramRenderer(r diagram.Renderer) Option {
	return func(c *Converter) {
		c.cfg.renderer = r
	}
}

// WithDiagramLanguage sets the code fence language treated as a diagram.
// Defaults to "mermaid".
func WithDiagramLanguage(lang string) Option {
	return func(c *Converter) {
		c.cfg.language = lang
	}
}

// WithDiagramScale sets the renderer scale factor. Defaults to 2.
func WithDiagramScale(scale int) Option {
	return func(c *Converter) {
		c.cfg.scale = scale
	}
}

// WithDiagramBackground sets the renderer background colour. Defaults to
// "white".
func WithDiagramBackground(bg string) Option {
	return func(c *Converter) {
		c.cfg.background = bg
	}
}

// WithWorkers bounds how many diagrams of one document render concurrently.
// Zero or negative values select ResolveWorkers(0).
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.cfg.workers = n
	}
}

// WithStyle selects the Word style set: a built-in name ("default",
// "compact"), a name found under WithAssetPath, or a path to a styles.xml
// file.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.style = style
	}
}

// WithAssetPath adds a directory of custom style sets (styles/<name>.xml)
// that take precedence over the built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithPageSettings sets the page size, orientation and margins.
func WithPageSettings(p *PageSettings) Option {
	return func(c *Converter) {
		c.cfg.page = p
	}
}

// withEngine replaces the document engine (test seam).
func withEngine(e renderEngine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}
