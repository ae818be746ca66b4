// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogmem/memoryd/internal/search"
)

/*
TestExpandQuery_Dedupes verifies a query already lowercase and without
stop words produces no spurious duplicate variants.
*/
func TestExpandQuery_Dedupes(t *testing.T) {
	variants := search.ExpandQuery("billing")
	assert.Equal(t, []string{"billing"}, variants)
}

/*
TestExpandQuery_ProducesLowercaseAndKeywordVariants verifies a mixed-
case query with stop words expands into the original, its lowercased
form, and a stop-word-stripped keyword form.
*/
func TestExpandQuery_ProducesLowercaseAndKeywordVariants(t *testing.T) {
	variants := search.ExpandQuery("What is the Billing Policy")

	require.Contains(t, variants, "What is the Billing Policy")
	require.Contains(t, variants, "what is the billing policy")
	assert.Contains(t, variants, "what billing policy")
}

/*
TestExpandQuery_CapsAtMaxVariants verifies expansion never exceeds
[search.MaxQueryVariants].
*/
func TestExpandQuery_CapsAtMaxVariants(t *testing.T) {
	variants := search.ExpandQuery("What is the Total Outstanding Billing Policy Amount Today")
	assert.LessOrEqual(t, len(variants), search.MaxQueryVariants)
}

func candidate(id int64, sourceType string, score float64) search.Candidate {
	return search.Candidate{ID: id, SourceType: sourceType, Score: score, CreatedAt: time.Now()}
}

/*
TestDeduplicateWithinSource_KeepsHighestScore verifies a repeated
(sourceType, id) pair collapses to its highest-scoring occurrence.
*/
func TestDeduplicateWithinSource_KeepsHighestScore(t *testing.T) {
	in := []search.Candidate{
		candidate(1, search.SourceInsight, 0.2),
		candidate(1, search.SourceInsight, 0.9),
		candidate(2, search.SourceInsight, 0.5),
	}

	out := search.DeduplicateWithinSource(in)

	require.Len(t, out, 2)
	assert.Equal(t, 0.9, out[0].Score)
	assert.Equal(t, int64(1), out[0].ID)
}

/*
TestDeduplicateWithinSource_DistinguishesBySourceType verifies two
candidates sharing an id but differing source types are both kept.
*/
func TestDeduplicateWithinSource_DistinguishesBySourceType(t *testing.T) {
	in := []search.Candidate{
		candidate(1, search.SourceInsight, 0.5),
		candidate(1, search.SourceEpisode, 0.5),
	}

	out := search.DeduplicateWithinSource(in)
	assert.Len(t, out, 2)
}

/*
TestFuseRRF_FavorsCandidateRankedHighestAcrossVariants verifies Reciprocal
Rank Fusion accumulates a higher fused score for a candidate ranked first
in every variant list than one ranked first in only one.
*/
func TestFuseRRF_FavorsCandidateRankedHighestAcrossVariants(t *testing.T) {
	always := candidate(1, search.SourceInsight, 0.9)
	sometimes := candidate(2, search.SourceInsight, 0.9)
	filler := candidate(3, search.SourceInsight, 0.1)

	variantLists := [][]search.Candidate{
		{always, sometimes, filler},
		{always, filler, sometimes},
		{always, sometimes, filler},
	}

	fused := search.FuseRRF(variantLists, 0)

	require.NotEmpty(t, fused)
	assert.Equal(t, int64(1), fused[0].ID, "candidate ranked first in every variant should fuse to the top")
}

/*
TestFuseRRF_DefaultsKWhenNonPositive verifies a non-positive k falls
back to [search.RRFConstant] rather than dividing by a non-positive
denominator.
*/
func TestFuseRRF_DefaultsKWhenNonPositive(t *testing.T) {
	variantLists := [][]search.Candidate{{candidate(1, search.SourceInsight, 1.0)}}

	withZero := search.FuseRRF(variantLists, 0)
	withDefault := search.FuseRRF(variantLists, search.RRFConstant)

	require.Len(t, withZero, 1)
	require.Len(t, withDefault, 1)
	assert.Equal(t, withDefault[0].Score, withZero[0].Score)
}
