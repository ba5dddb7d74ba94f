// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

// Package priority converts raw signals into ranked, location-aggregated
// scores. All functions are pure: no I/O, no shared state, deterministic
// output for a given signal set regardless of input order.
package priority

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/davetashner/locus/internal/signal"
)

// Family weights, ordered by empirically assumed reliability. An explicit
// stub marker is direct developer intent; a naming convention is a guess.
// The ordering is a design invariant. The exact values are policy constants
// inherited without a deeper statistical derivation.
const (
	stubMarkerWeight       = 1.0
	testLayoutWeight       = 0.85
	declaredConfigWeight   = 0.7
	namingConventionWeight = 0.4
)

// ConsensusBonus is the multiplier applied to a location's aggregate score
// when at least two distinct families agree on the exact same location.
// Independent corroboration outranks a single strong-but-isolated signal.
const ConsensusBonus = 1.25

// Table maps each signal family to its priority weight. It is immutable
// after construction and safe for unsynchronized concurrent reads.
type Table struct {
	weights map[signal.Family]float64
}

// DefaultTable returns the process-wide priority table.
func DefaultTable() Table {
	return Table{weights: map[signal.Family]float64{
		signal.FamilyStubMarker:       stubMarkerWeight,
		signal.FamilyTestLayout:       testLayoutWeight,
		signal.FamilyDeclaredConfig:   declaredConfigWeight,
		signal.FamilyNamingConvention: namingConventionWeight,
	}}
}

// Weight returns the priority weight for a family, or 0 for an unknown one.
func (t Table) Weight(f signal.Family) float64 {
	return t.weights[f]
}

// Validate checks that every given family has a positive weight. It keeps
// the scanner set and the table in lock-step: registering a scanner whose
// family has no weight is a programming error, surfaced at startup.
func (t Table) Validate(families []signal.Family) error {
	for _, f := range families {
		if t.weights[f] <= 0 {
			return fmt.Errorf("family %s has no priority weight", f)
		}
	}
	return nil
}

// RankedSignal pairs a signal with its weighted score. Produced once per
// signal, read-only after creation.
type RankedSignal struct {
	Signal        signal.Signal
	WeightedScore float64
}

// Rank applies the table's weights to each signal.
func Rank(t Table, signals []signal.Signal) []RankedSignal {
	ranked := make([]RankedSignal, 0, len(signals))
	for _, s := range signals {
		ranked = append(ranked, RankedSignal{
			Signal:        s,
			WeightedScore: s.Strength * t.Weight(s.Family),
		})
	}
	return ranked
}

// LocationScore is the aggregate evidence for one candidate location.
type LocationScore struct {
	// Path is the normalized candidate directory.
	Path string

	// Score is the sum of weighted scores of all signals at this exact
	// path, multiplied by ConsensusBonus when Families has ≥2 entries.
	Score float64

	// Families lists the distinct families that agreed on this path, in
	// reliability order.
	Families []signal.Family

	// SupportingSignals counts the signals that contributed.
	SupportingSignals int

	// Evidence collects the contributing signals' evidence strings.
	Evidence []string
}

// Consensus reports whether more than one family backs this location.
func (l LocationScore) Consensus() bool {
	return len(l.Families) >= 2
}

// Aggregate groups ranked signals by exact location and scores each group.
// Signals for subdirectories are not folded into ancestors: only
// exact-location agreement counts toward consensus, so unrelated evidence at
// different depths cannot fake corroboration.
//
// The returned slice is sorted by path. Summation happens in a fixed sorted
// order so floating-point results do not depend on scanner completion order.
func Aggregate(ranked []RankedSignal) []LocationScore {
	if len(ranked) == 0 {
		return nil
	}

	// Fix the fold order before grouping.
	sorted := make([]RankedSignal, len(ranked))
	copy(sorted, ranked)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Signal, sorted[j].Signal
		if a.Location != b.Location {
			return a.Location < b.Location
		}
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		if a.Strength != b.Strength {
			return a.Strength < b.Strength
		}
		return a.Evidence < b.Evidence
	})

	groups := make(map[string][]RankedSignal)
	order := make([]string, 0)
	for _, r := range sorted {
		path := filepath.Clean(r.Signal.Location)
		if _, seen := groups[path]; !seen {
			order = append(order, path)
		}
		groups[path] = append(groups[path], r)
	}
	sort.Strings(order)

	scores := make([]LocationScore, 0, len(order))
	for _, path := range order {
		group := groups[path]

		sum := 0.0
		familySet := make(map[signal.Family]bool)
		evidence := make([]string, 0, len(group))
		for _, r := range group {
			sum += r.WeightedScore
			familySet[r.Signal.Family] = true
			evidence = append(evidence, r.Signal.Evidence)
		}

		families := make([]signal.Family, 0, len(familySet))
		for _, f := range signal.Families() {
			if familySet[f] {
				families = append(families, f)
			}
		}

		if len(families) >= 2 {
			sum *= ConsensusBonus
		}

		scores = append(scores, LocationScore{
			Path:              path,
			Score:             sum,
			Families:          families,
			SupportingSignals: len(group),
			Evidence:          evidence,
		})
	}

	return scores
}
