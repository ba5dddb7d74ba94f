// Package signal defines the core domain types for locus.
package signal

import "time"

// Family identifies the category of evidence a signal carries. The set is
// closed: adding a family requires a matching priority table entry.
type Family string

const (
	// FamilyStubMarker covers explicit placeholder files and markers left by
	// developers to flag an intended location.
	FamilyStubMarker Family = "STUB_MARKER"

	// FamilyTestLayout covers conventional test directories and files whose
	// placement implies a sibling implementation location.
	FamilyTestLayout Family = "TEST_LAYOUT"

	// FamilyNamingConvention covers directory-name idioms such as src/ or a
	// package directory matching the repository name.
	FamilyNamingConvention Family = "NAMING_CONVENTION"

	// FamilyDeclaredConfig covers build manifests and project config files
	// that declare a source root or module path.
	FamilyDeclaredConfig Family = "DECLARED_CONFIG"
)

// Families returns all known families in descending reliability order.
func Families() []Family {
	return []Family{
		FamilyStubMarker,
		FamilyTestLayout,
		FamilyDeclaredConfig,
		FamilyNamingConvention,
	}
}

// KnownFamily reports whether f is one of the closed family set.
func KnownFamily(f Family) bool {
	switch f {
	case FamilyStubMarker, FamilyTestLayout, FamilyNamingConvention, FamilyDeclaredConfig:
		return true
	}
	return false
}

// Signal is one atomic piece of filesystem evidence about a candidate
// location. Signals are immutable once produced; they are created only by
// scanners and never mutated downstream.
type Signal struct {
	Family   Family  // Evidence category: stub marker, test layout, etc.
	Location string  // Absolute directory path under the scanned root.
	Strength float64 // 0.0-1.0, the scanner's confidence in this observation.
	Evidence string  // Short human-readable justification (file, pattern).
}

// Tier is the discrete confidence classification of a detection result.
type Tier string

const (
	TierNone   Tier = "NONE"
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// tierRank orders tiers for comparison. Higher is more confident.
var tierRank = map[Tier]int{
	TierNone:   0,
	TierLow:    1,
	TierMedium: 2,
	TierHigh:   3,
}

// AtLeast reports whether t is at or above the given tier.
func (t Tier) AtLeast(other Tier) bool {
	return tierRank[t] >= tierRank[other]
}

// ScanOpts holds per-scanner options passed through by the orchestrator.
type ScanOpts struct {
	// Requirement is the caller's free-text hint. Scanners use it only to
	// bias which conventions are checked, never to parse intent.
	Requirement string

	// ExcludePatterns skips paths matching these globs, in addition to the
	// built-in vendor/dependency exclusions.
	ExcludePatterns []string
}

// ScannerResult holds the output from a single scanner run.
type ScannerResult struct {
	// Family is the signal family the scanner produces.
	Family Family

	// Signals are the raw signals found.
	Signals []Signal

	// Duration is how long the scanner took.
	Duration time.Duration

	// Err is any error the scanner returned. Scanner errors are recorded,
	// not propagated: an errored scanner simply contributes zero signals.
	Err error
}

// LocationConstraint is one candidate location with its classification. It is
// the unit returned both as the primary answer and as each entry of the
// fallback chain.
type LocationConstraint struct {
	Path              string // Absolute path, the root or a descendant of it.
	Tier              Tier   // Confidence tier for this candidate alone.
	SupportingSignals int    // Number of signals that agreed on this path.
	Rationale         string // Families and evidence backing the candidate.
}

// Detection is the final result of one orchestrated scan. It is created once
// per invocation and never persisted by this component.
type Detection struct {
	// DetectedRoot is the winning location. Equal to the scanned project
	// root when no signals were collected.
	DetectedRoot string

	// Tier classifies the winning location's aggregate score.
	Tier Tier

	// Primary is the winning location as a full constraint, carrying the
	// supporting count and rationale behind DetectedRoot and Tier.
	Primary LocationConstraint

	// FallbackChain lists the next-best candidates in descending score
	// order, so a caller whose top pick is rejected can retry without
	// rescanning.
	FallbackChain []LocationConstraint

	// ScanDuration is the wall time actually elapsed.
	ScanDuration time.Duration

	// DegradedFamilies lists scanner families that did not complete within
	// the budget. Their output was discarded.
	DegradedFamilies []Family

	// SignalsConsidered counts the valid signals that reached ranking.
	SignalsConsidered int
}

// Degraded reports whether any scanner family missed the budget.
func (d Detection) Degraded() bool {
	return len(d.DegradedFamilies) > 0
}
