// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

// Package classify reduces scored candidate locations into the final
// detection result: a primary location, a confidence tier, and an ordered
// fallback chain.
package classify

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davetashner/locus/internal/priority"
	"github.com/davetashner/locus/internal/signal"
)

// Confidence tier thresholds over a location's aggregate weighted score.
// Policy constants inherited without a deeper statistical derivation.
const (
	HighThreshold   = 0.8
	MediumThreshold = 0.5
)

// DefaultMaxFallbacks caps the fallback chain length unless overridden.
const DefaultMaxFallbacks = 5

// maxRationaleEvidence bounds how many evidence strings a rationale quotes.
const maxRationaleEvidence = 3

// Options adjusts classification behavior.
type Options struct {
	// MaxFallbacks caps the fallback chain. Zero means DefaultMaxFallbacks.
	MaxFallbacks int
}

// TierFor maps an aggregate score to its confidence tier.
func TierFor(score float64) signal.Tier {
	switch {
	case score >= HighThreshold:
		return signal.TierHigh
	case score >= MediumThreshold:
		return signal.TierMedium
	case score > 0:
		return signal.TierLow
	default:
		return signal.TierNone
	}
}

// Classify sorts the candidates, picks the winner, and builds the fallback
// chain. An empty candidate set is a valid outcome: the root itself at tier
// NONE, never an error. The caller attaches scan metadata afterwards.
func Classify(root string, scores []priority.LocationScore, opts Options) signal.Detection {
	maxFallbacks := opts.MaxFallbacks
	if maxFallbacks <= 0 {
		maxFallbacks = DefaultMaxFallbacks
	}

	if len(scores) == 0 {
		return signal.Detection{
			DetectedRoot: root,
			Tier:         signal.TierNone,
			Primary: signal.LocationConstraint{
				Path:      root,
				Tier:      signal.TierNone,
				Rationale: "no signals collected; defaulting to the project root",
			},
		}
	}

	sorted := sortLocations(scores)

	winner := constraintFor(sorted[0])

	chain := make([]signal.LocationConstraint, 0, maxFallbacks)
	for _, loc := range sorted[1:] {
		if len(chain) == maxFallbacks {
			break
		}
		chain = append(chain, constraintFor(loc))
	}

	return signal.Detection{
		DetectedRoot:  winner.Path,
		Tier:          winner.Tier,
		Primary:       winner,
		FallbackChain: chain,
	}
}

// sortLocations orders candidates by descending score, breaking ties by
// shallower path depth and then lexicographically, so output order is
// deterministic for any input permutation.
func sortLocations(scores []priority.LocationScore) []priority.LocationScore {
	sorted := make([]priority.LocationScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		di, dj := pathDepth(sorted[i].Path), pathDepth(sorted[j].Path)
		if di != dj {
			return di < dj
		}
		return sorted[i].Path < sorted[j].Path
	})
	return sorted
}

// pathDepth counts the components of a cleaned path.
func pathDepth(path string) int {
	cleaned := filepath.Clean(path)
	if cleaned == string(filepath.Separator) {
		return 0
	}
	return strings.Count(cleaned, string(filepath.Separator))
}

// constraintFor converts one scored location into its returned form.
func constraintFor(loc priority.LocationScore) signal.LocationConstraint {
	return signal.LocationConstraint{
		Path:              loc.Path,
		Tier:              TierFor(loc.Score),
		SupportingSignals: loc.SupportingSignals,
		Rationale:         rationaleFor(loc),
	}
}

// rationaleFor renders a short justification like
// "STUB_MARKER+TEST_LAYOUT consensus (2 signals): placeholder file x; tests mirror y".
func rationaleFor(loc priority.LocationScore) string {
	families := make([]string, len(loc.Families))
	for i, f := range loc.Families {
		families[i] = string(f)
	}

	var b strings.Builder
	b.WriteString(strings.Join(families, "+"))
	if loc.Consensus() {
		b.WriteString(" consensus")
	}
	fmt.Fprintf(&b, " (%d signal", loc.SupportingSignals)
	if loc.SupportingSignals != 1 {
		b.WriteString("s")
	}
	b.WriteString(")")

	if len(loc.Evidence) > 0 {
		quoted := loc.Evidence
		extra := 0
		if len(quoted) > maxRationaleEvidence {
			extra = len(quoted) - maxRationaleEvidence
			quoted = quoted[:maxRationaleEvidence]
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(quoted, "; "))
		if extra > 0 {
			fmt.Fprintf(&b, "; and %d more", extra)
		}
	}

	return b.String()
}
