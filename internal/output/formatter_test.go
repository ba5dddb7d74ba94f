package output

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/davetashner/locus/internal/signal"
)

// Compile-time interface check.
var _ Formatter = (*stubFormatter)(nil)

type stubFormatter struct{}

func (s *stubFormatter) Name() string                                  { return "stub" }
func (s *stubFormatter) Format(_ *signal.Detection, _ io.Writer) error { return nil }

func TestFormatterInterface(t *testing.T) {
	var f Formatter = &stubFormatter{}
	if f.Name() != "stub" {
		t.Errorf("Name() = %q, want %q", f.Name(), "stub")
	}

	var buf bytes.Buffer
	if err := f.Format(nil, &buf); err != nil {
		t.Errorf("Format() error = %v", err)
	}
}

func TestGetFormatter_BuiltinsRegistered(t *testing.T) {
	for _, name := range []string{"json", "text", "markdown"} {
		f, err := GetFormatter(name)
		if err != nil {
			t.Fatalf("GetFormatter(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
	}
}

func TestGetFormatter_Unknown(t *testing.T) {
	_, err := GetFormatter("sparkline")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "json") || !strings.Contains(err.Error(), "text") {
		t.Errorf("error should list available formats, got %v", err)
	}
}

// restoreFormatters re-registers the built-in formatters after a reset.
func restoreFormatters() {
	resetFmtForTesting()
	RegisterFormatter(NewJSONFormatter())
	RegisterFormatter(NewTextFormatter())
	RegisterFormatter(NewMarkdownFormatter())
}
