package md2docx

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/alnah/go-md2docx/internal/docx"
)

// renderEngine turns Markdown into a document payload. The payload is
// []byte or an io.Reader.
type renderEngine interface {
	Render(ctx context.Context, req docx.Request) (any, error)
}

// docxEngine adapts docx.Engine to renderEngine.
type docxEngine struct {
	engine *docx.Engine
}

func (e docxEngine) Render(ctx context.Context, req docx.Request) (any, error) {
	return e.engine.Render(ctx, req)
}

// normalizeOutput reads an engine payload into bytes.
func normalizeOutput(out any) ([]byte, error) {
	switch v := out.(type) {
	case []byte:
		return v, nil
	case *bytes.Buffer:
		if v == nil {
			return nil, fmt.Errorf("%w: nil buffer", ErrUnexpectedOutputType)
		}
		return v.Bytes(), nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("%w: reading output: %v", ErrRenderEngine, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedOutputType, out)
	}
}

// Compile-time interface implementation check.
var _ renderEngine = docxEngine{}
