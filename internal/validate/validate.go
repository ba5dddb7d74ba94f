// Package validate checks proposed target locations for consistency with a
// project structure detection. It answers one question: is this path a
// sensible place to put new code, given the evidence already collected?
package validate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/davetashner/locus/internal/detect"
	"github.com/davetashner/locus/internal/signal"
	"github.com/davetashner/locus/internal/testable"
)

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// detector is the subset of detect.Detector used for fresh scans.
type detector interface {
	Detect(ctx context.Context, root string) (*signal.Detection, error)
}

// newDetector builds the detector used when no prior detection is supplied.
// Overridable in tests.
var newDetector = func(opts detect.Options) (detector, error) {
	return detect.New(opts)
}

// testDirNames are path segments that mark a location as test territory.
// New implementation code does not belong inside them.
var testDirNames = map[string]bool{
	"tests":     true,
	"test":      true,
	"spec":      true,
	"__tests__": true,
	"testdata":  true,
}

// vendorDirNames are path segments for vendored or generated trees.
var vendorDirNames = map[string]bool{
	"vendor":           true,
	"node_modules":     true,
	"bower_components": true,
	"third_party":      true,
	"3rdparty":         true,
	"extern":           true,
	"external":         true,
	"__pycache__":      true,
	"target":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
}

// Options configures a fresh scan run for callers that supply no prior
// detection.
type Options struct {
	// Budget caps the fresh scan. Zero means the detector default.
	Budget time.Duration

	// Requirement biases the fresh scan's naming checks.
	Requirement string
}

// TargetLocation reports whether proposed is consistent with the collected
// structure evidence, with a human-readable rationale either way. The
// proposed path does not need to exist yet.
//
// When prior is non-nil it is checked as-is and no filesystem scan runs.
// When prior is nil, a fresh budgeted detection runs against the nearest
// enclosing project root and the proposal is checked against that.
func TargetLocation(ctx context.Context, proposed string, prior *signal.Detection, opts Options) (bool, string) {
	abs, err := FS.Abs(proposed)
	if err != nil {
		return false, fmt.Sprintf("cannot resolve %q to an absolute path", proposed)
	}
	abs = filepath.Clean(abs)

	if prior == nil {
		det, scanErr := freshDetection(ctx, abs, opts)
		if scanErr != nil {
			return false, fmt.Sprintf("cannot scan for structure: %v", scanErr)
		}
		prior = det
	}

	return checkAgainst(abs, prior)
}

// checkAgainst applies the structural checks for one proposal against one
// detection. The first failed check decides the outcome.
func checkAgainst(proposed string, det *signal.Detection) (bool, string) {
	if det.Tier == signal.TierNone {
		return checkPermissive(proposed, det)
	}

	candidates := append([]signal.LocationConstraint{det.Primary}, det.FallbackChain...)
	for _, c := range candidates {
		if !signal.WithinRoot(proposed, c.Path) {
			continue
		}
		if seg, bad := offendingSegment(c.Path, proposed); bad {
			return false, seg
		}
		if c.Path == det.DetectedRoot {
			return true, fmt.Sprintf("consistent with the detected root %s (%s confidence)", c.Path, c.Tier)
		}
		return true, fmt.Sprintf("consistent with fallback candidate %s (%s confidence)", c.Path, c.Tier)
	}

	return false, fmt.Sprintf("outside every detected candidate location; detection points at %s", det.DetectedRoot)
}

// checkPermissive handles detections with no evidence: anything inside the
// scanned root passes unless it lands in test or vendored territory.
func checkPermissive(proposed string, det *signal.Detection) (bool, string) {
	root := det.DetectedRoot
	if !signal.WithinRoot(proposed, root) {
		return false, fmt.Sprintf("outside the scanned project root %s", root)
	}
	if seg, bad := offendingSegment(root, proposed); bad {
		return false, seg
	}
	return true, "no structural evidence contradicts this location"
}

// offendingSegment checks the path segments of proposed below base and
// returns a rationale for the first segment new code should not live under.
func offendingSegment(base, proposed string) (string, bool) {
	rel, err := filepath.Rel(base, proposed)
	if err != nil || rel == "." {
		return "", false
	}

	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		switch {
		case testDirNames[seg]:
			return fmt.Sprintf("lands inside test directory %q", seg), true
		case vendorDirNames[seg]:
			return fmt.Sprintf("lands inside vendored or generated directory %q", seg), true
		case strings.HasPrefix(seg, "."):
			return fmt.Sprintf("lands inside hidden directory %q", seg), true
		}
	}
	return "", false
}

// freshDetection runs a budgeted scan rooted at the nearest enclosing
// project root of the proposal.
func freshDetection(ctx context.Context, proposed string, opts Options) (*signal.Detection, error) {
	d, err := newDetector(detect.Options{
		Requirement: opts.Requirement,
		Budget:      opts.Budget,
	})
	if err != nil {
		return nil, err
	}
	return d.Detect(ctx, projectRootFor(proposed))
}
