package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/davetashner/locus/internal/signal"
)

func init() {
	RegisterFormatter(NewTextFormatter())
}

// TextFormatter writes a detection as a human-readable terminal summary.
type TextFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*TextFormatter)(nil)

// NewTextFormatter returns a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the format name.
func (t *TextFormatter) Name() string {
	return "text"
}

// Format writes the primary location, the fallback chain, and scan metadata.
func (t *TextFormatter) Format(det *signal.Detection, w io.Writer) error {
	if det == nil {
		return fmt.Errorf("format text: nil detection")
	}

	bold := color.New(color.Bold)
	tier := tierColor(det.Tier).Sprintf("[%s]", det.Tier)

	if _, err := fmt.Fprintf(w, "%s %s %s\n", bold.Sprint("Detected root:"), det.DetectedRoot, tier); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	if det.Primary.Rationale != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", det.Primary.Rationale)
	}

	if len(det.FallbackChain) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", bold.Sprint("Fallbacks:"))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "  PATH\tTIER\tSIGNALS")
		for _, c := range det.FallbackChain {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%d\n",
				c.Path, tierColor(c.Tier).Sprint(string(c.Tier)), c.SupportingSignals)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}

	if det.Degraded() {
		names := make([]string, len(det.DegradedFamilies))
		for i, family := range det.DegradedFamilies {
			names[i] = string(family)
		}
		_, _ = fmt.Fprintf(w, "\n%s %s\n",
			color.New(color.FgYellow).Sprint("Degraded scanners:"), strings.Join(names, ", "))
	}

	_, _ = fmt.Fprintf(w, "\nScanned in %s (%d signals considered)\n",
		det.ScanDuration.Round(10*time.Microsecond), det.SignalsConsidered)
	return nil
}

// tierColor maps a confidence tier to its display color.
func tierColor(tier signal.Tier) *color.Color {
	switch tier {
	case signal.TierHigh:
		return color.New(color.FgGreen)
	case signal.TierMedium:
		return color.New(color.FgYellow)
	case signal.TierLow:
		return color.New(color.FgCyan)
	default:
		return color.New(color.Faint)
	}
}
