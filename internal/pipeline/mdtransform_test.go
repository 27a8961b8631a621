package pipeline

import (
	"context"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPreprocessMarkdown - Source normalization
// ---------------------------------------------------------------------------

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty stays empty", "", ""},
		{"adds trailing newline", "# T", "# T\n"},
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"lone cr", "a\rb", "a\nb\n"},
		{"bom stripped", "\uFEFF# T\n", "# T\n"},
		{"blank lines compressed", "a\n\n\n\n\nb\n", "a\n\nb\n"},
		{"trailing newlines trimmed", "a\n\n\n", "a\n"},
		{"mermaid arrows untouched", "A ==> B\n", "A ==> B\n"},
	}

	p := &CommonMarkPreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreprocessMarkdown_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "a\r\n"
	if got := (&CommonMarkPreprocessor{}).PreprocessMarkdown(ctx, input); got != input {
		t.Errorf("PreprocessMarkdown() = %q, want input unchanged", got)
	}
}
