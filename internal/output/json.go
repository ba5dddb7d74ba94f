package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/davetashner/locus/internal/signal"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope is the top-level JSON document for one detection.
type JSONEnvelope struct {
	ID                string           `json:"id"`
	GeneratedAt       string           `json:"generated_at"`
	DetectedRoot      string           `json:"detected_root"`
	ConfidenceTier    string           `json:"confidence_tier"`
	Primary           JSONConstraint   `json:"primary"`
	FallbackChain     []JSONConstraint `json:"fallback_chain"`
	DegradedFamilies  []string         `json:"degraded_families"`
	ScanDurationMS    float64          `json:"scan_duration_ms"`
	SignalsConsidered int              `json:"signals_considered"`
}

// JSONConstraint mirrors signal.LocationConstraint on the wire.
type JSONConstraint struct {
	Path              string `json:"path"`
	ConfidenceTier    string `json:"confidence_tier"`
	SupportingSignals int    `json:"supporting_signals"`
	Rationale         string `json:"rationale"`
}

// JSONFormatter writes a detection as a JSON document with envelope metadata.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	Compact bool

	// nowFunc and idFunc are used for testing to pin envelope metadata.
	nowFunc func() time.Time
	idFunc  func() string
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the detection as a JSON document to w. If Compact is true,
// output is a single line; otherwise output is indented for terminals and
// compact for pipes.
func (f *JSONFormatter) Format(det *signal.Detection, w io.Writer) error {
	if det == nil {
		return fmt.Errorf("format json: nil detection")
	}

	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}
	id := uuid.NewString()
	if f.idFunc != nil {
		id = f.idFunc()
	}

	envelope := JSONEnvelope{
		ID:                id,
		GeneratedAt:       now.UTC().Format("2006-01-02T15:04:05Z"),
		DetectedRoot:      det.DetectedRoot,
		ConfidenceTier:    string(det.Tier),
		Primary:           toJSONConstraint(det.Primary),
		FallbackChain:     make([]JSONConstraint, 0, len(det.FallbackChain)),
		DegradedFamilies:  make([]string, 0, len(det.DegradedFamilies)),
		ScanDurationMS:    float64(det.ScanDuration) / float64(time.Millisecond),
		SignalsConsidered: det.SignalsConsidered,
	}
	for _, c := range det.FallbackChain {
		envelope.FallbackChain = append(envelope.FallbackChain, toJSONConstraint(c))
	}
	for _, family := range det.DegradedFamilies {
		envelope.DegradedFamilies = append(envelope.DegradedFamilies, string(family))
	}

	compact := f.shouldCompact(w)

	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write json trailing newline: %w", err)
	}

	return nil
}

// shouldCompact determines whether to use compact mode.
// If Compact is explicitly set, use that value.
// Otherwise, auto-detect: pretty-print for TTYs, compact for pipes.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}

	// Auto-detect: if the writer is an *os.File, check if it's a terminal.
	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false // default to pretty on error
		}
		if fi.Mode()&os.ModeCharDevice != 0 {
			return false // TTY -> pretty
		}
		return true // pipe/file -> compact
	}

	// For non-file writers (e.g., bytes.Buffer in tests), default to pretty.
	return false
}

func toJSONConstraint(c signal.LocationConstraint) JSONConstraint {
	return JSONConstraint{
		Path:              c.Path,
		ConfidenceTier:    string(c.Tier),
		SupportingSignals: c.SupportingSignals,
		Rationale:         c.Rationale,
	}
}
