// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/locus/internal/signal"
)

// -----------------------------------------------------------------------
// Table tests
// -----------------------------------------------------------------------

func TestDefaultTable_ReliabilityOrdering(t *testing.T) {
	table := DefaultTable()

	stub := table.Weight(signal.FamilyStubMarker)
	test := table.Weight(signal.FamilyTestLayout)
	config := table.Weight(signal.FamilyDeclaredConfig)
	naming := table.Weight(signal.FamilyNamingConvention)

	assert.Greater(t, stub, test, "stub markers outrank test layout")
	assert.Greater(t, test, config, "test layout outranks declared config")
	assert.Greater(t, config, naming, "declared config outranks naming conventions")
	assert.Greater(t, naming, 0.0, "every family has a positive weight")
}

func TestTable_WeightUnknownFamily(t *testing.T) {
	table := DefaultTable()
	assert.Zero(t, table.Weight("GIT_HISTORY"))
}

func TestTable_Validate(t *testing.T) {
	table := DefaultTable()

	require.NoError(t, table.Validate(signal.Families()))

	err := table.Validate([]signal.Family{"GIT_HISTORY"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GIT_HISTORY")
}

// -----------------------------------------------------------------------
// Rank tests
// -----------------------------------------------------------------------

func TestRank_WeightedScore(t *testing.T) {
	table := DefaultTable()
	signals := []signal.Signal{
		{Family: signal.FamilyStubMarker, Location: "/p/src", Strength: 0.9, Evidence: "stub"},
		{Family: signal.FamilyNamingConvention, Location: "/p/lib", Strength: 0.5, Evidence: "src dir"},
	}

	ranked := Rank(table, signals)
	require.Len(t, ranked, 2)
	assert.InDelta(t, 0.9*stubMarkerWeight, ranked[0].WeightedScore, 1e-9)
	assert.InDelta(t, 0.5*namingConventionWeight, ranked[1].WeightedScore, 1e-9)
}

func TestRank_Empty(t *testing.T) {
	ranked := Rank(DefaultTable(), nil)
	assert.Empty(t, ranked)
}

// -----------------------------------------------------------------------
// Aggregate tests
// -----------------------------------------------------------------------

func TestAggregate_GroupsByExactLocation(t *testing.T) {
	table := DefaultTable()
	signals := []signal.Signal{
		{Family: signal.FamilyStubMarker, Location: "/p/src/widget", Strength: 0.8, Evidence: "a"},
		{Family: signal.FamilyStubMarker, Location: "/p/src/widget", Strength: 0.4, Evidence: "b"},
		{Family: signal.FamilyStubMarker, Location: "/p/lib", Strength: 0.6, Evidence: "c"},
	}

	scores := Aggregate(Rank(table, signals))
	require.Len(t, scores, 2)

	byPath := indexByPath(scores)
	widget := byPath["/p/src/widget"]
	assert.Equal(t, 2, widget.SupportingSignals)
	assert.InDelta(t, (0.8+0.4)*stubMarkerWeight, widget.Score, 1e-9)
	assert.Equal(t, []signal.Family{signal.FamilyStubMarker}, widget.Families)
	assert.False(t, widget.Consensus())
}

func TestAggregate_ConsensusBonus(t *testing.T) {
	table := DefaultTable()
	stubOnly := []signal.Signal{
		{Family: signal.FamilyStubMarker, Location: "/p/src", Strength: 0.6, Evidence: "stub"},
	}
	testOnly := []signal.Signal{
		{Family: signal.FamilyTestLayout, Location: "/p/src", Strength: 0.5, Evidence: "tests"},
	}
	both := append(append([]signal.Signal{}, stubOnly...), testOnly...)

	stubScore := Aggregate(Rank(table, stubOnly))[0].Score
	testScore := Aggregate(Rank(table, testOnly))[0].Score
	combined := Aggregate(Rank(table, both))
	require.Len(t, combined, 1)

	want := (0.6*stubMarkerWeight + 0.5*testLayoutWeight) * ConsensusBonus
	assert.InDelta(t, want, combined[0].Score, 1e-9)
	assert.True(t, combined[0].Consensus())
	assert.Equal(t, []signal.Family{signal.FamilyStubMarker, signal.FamilyTestLayout}, combined[0].Families)

	// Monotonic consensus: corroboration never hurts.
	assert.Greater(t, combined[0].Score, stubScore)
	assert.Greater(t, combined[0].Score, testScore)
}

func TestAggregate_NoBonusForSameFamilyTwice(t *testing.T) {
	table := DefaultTable()
	signals := []signal.Signal{
		{Family: signal.FamilyStubMarker, Location: "/p/src", Strength: 0.5, Evidence: "a"},
		{Family: signal.FamilyStubMarker, Location: "/p/src", Strength: 0.5, Evidence: "b"},
	}

	scores := Aggregate(Rank(table, signals))
	require.Len(t, scores, 1)
	assert.InDelta(t, (0.5+0.5)*stubMarkerWeight, scores[0].Score, 1e-9)
	assert.False(t, scores[0].Consensus())
}

func TestAggregate_SubdirectoryNotFoldedIntoAncestor(t *testing.T) {
	table := DefaultTable()
	signals := []signal.Signal{
		{Family: signal.FamilyStubMarker, Location: "/p/src", Strength: 0.9, Evidence: "a"},
		{Family: signal.FamilyTestLayout, Location: "/p/src/deep", Strength: 0.9, Evidence: "b"},
	}

	scores := Aggregate(Rank(table, signals))
	require.Len(t, scores, 2)
	for _, s := range scores {
		assert.False(t, s.Consensus(), "different depths must not corroborate each other")
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	table := DefaultTable()
	signals := []signal.Signal{
		{Family: signal.FamilyStubMarker, Location: "/p/a", Strength: 0.31, Evidence: "one"},
		{Family: signal.FamilyTestLayout, Location: "/p/a", Strength: 0.77, Evidence: "two"},
		{Family: signal.FamilyNamingConvention, Location: "/p/b", Strength: 0.5, Evidence: "three"},
		{Family: signal.FamilyDeclaredConfig, Location: "/p/a", Strength: 0.12, Evidence: "four"},
	}
	reversed := make([]signal.Signal, len(signals))
	for i, s := range signals {
		reversed[len(signals)-1-i] = s
	}

	forward := Aggregate(Rank(table, signals))
	backward := Aggregate(Rank(table, reversed))
	assert.Equal(t, forward, backward, "aggregation must not depend on signal arrival order")
}

func TestAggregate_NormalizesLocations(t *testing.T) {
	table := DefaultTable()
	signals := []signal.Signal{
		{Family: signal.FamilyStubMarker, Location: "/p/src/widget", Strength: 0.5, Evidence: "a"},
		{Family: signal.FamilyTestLayout, Location: "/p/src/widget/", Strength: 0.5, Evidence: "b"},
	}

	scores := Aggregate(Rank(table, signals))
	require.Len(t, scores, 1, "trailing separators must not split a location group")
	assert.True(t, scores[0].Consensus())
}

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
}

func indexByPath(scores []LocationScore) map[string]LocationScore {
	m := make(map[string]LocationScore, len(scores))
	for _, s := range scores {
		m[s.Path] = s
	}
	return m
}
