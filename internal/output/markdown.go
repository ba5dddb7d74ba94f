package output

import (
	"fmt"
	"io"
	"time"

	"github.com/davetashner/locus/internal/signal"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes a detection as a Markdown summary, suitable for
// pasting into issues or review comments.
type MarkdownFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes the detection as a Markdown document to w.
//
// The output includes:
//   - A title heading with the detected root and confidence tier
//   - The primary location's rationale
//   - A fallback chain table
//   - A scan metadata footer (duration, signal count, degraded families)
func (m *MarkdownFormatter) Format(det *signal.Detection, w io.Writer) error {
	if det == nil {
		return fmt.Errorf("format markdown: nil detection")
	}

	if _, err := fmt.Fprintf(w, "# Detected location\n\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(w, "**Root:** `%s` | **Confidence:** %s\n\n", det.DetectedRoot, det.Tier); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if det.Primary.Rationale != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", det.Primary.Rationale); err != nil {
			return fmt.Errorf("write rationale: %w", err)
		}
	}

	if len(det.FallbackChain) > 0 {
		if err := writeFallbackTable(w, det.FallbackChain); err != nil {
			return err
		}
	}

	return writeScanFooter(w, det)
}

// writeFallbackTable writes the fallback chain as a Markdown table.
func writeFallbackTable(w io.Writer, chain []signal.LocationConstraint) error {
	if _, err := fmt.Fprintf(w, "## Fallbacks\n\n"); err != nil {
		return fmt.Errorf("write fallback table: %w", err)
	}
	if _, err := fmt.Fprintf(w, "| Path | Tier | Signals |\n"); err != nil {
		return fmt.Errorf("write fallback table: %w", err)
	}
	if _, err := fmt.Fprintf(w, "|------|------|---------|\n"); err != nil {
		return fmt.Errorf("write fallback table: %w", err)
	}
	for _, c := range chain {
		if _, err := fmt.Fprintf(w, "| `%s` | %s | %d |\n", c.Path, c.Tier, c.SupportingSignals); err != nil {
			return fmt.Errorf("write fallback table: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return fmt.Errorf("write fallback table: %w", err)
	}
	return nil
}

// writeScanFooter writes the scan metadata line.
func writeScanFooter(w io.Writer, det *signal.Detection) error {
	if _, err := fmt.Fprintf(w, "---\n\nScanned in %s, %d signal(s) considered",
		det.ScanDuration.Round(time.Microsecond), det.SignalsConsidered); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}

	if len(det.DegradedFamilies) > 0 {
		if _, err := fmt.Fprintf(w, "; degraded:"); err != nil {
			return fmt.Errorf("write footer: %w", err)
		}
		for i, f := range det.DegradedFamilies {
			sep := " "
			if i > 0 {
				sep = ", "
			}
			if _, err := fmt.Fprintf(w, "%s%s", sep, f); err != nil {
				return fmt.Errorf("write footer: %w", err)
			}
		}
	}

	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}
