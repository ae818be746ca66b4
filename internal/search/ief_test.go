// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogmem/memoryd/internal/insight"
	"github.com/cogmem/memoryd/internal/platform/postgres"
	"github.com/cogmem/memoryd/internal/search"
)

// fakeInsightRepo implements [insight.Repository] for the IEF Re-scorer
// tests, where only FeedbackCountsFor is ever exercised.
type fakeInsightRepo struct {
	counts map[int64]insight.FeedbackCounts
}

func (f *fakeInsightRepo) Create(ctx context.Context, db postgres.Querier, i *insight.Insight) error {
	return nil
}
func (f *fakeInsightRepo) FindByID(ctx context.Context, db postgres.Querier, id int64) (*insight.Insight, error) {
	return nil, nil
}
func (f *fakeInsightRepo) Update(ctx context.Context, db postgres.Querier, i *insight.Insight) error {
	return nil
}
func (f *fakeInsightRepo) SoftDelete(ctx context.Context, db postgres.Querier, id int64, actor, reason string) error {
	return nil
}
func (f *fakeInsightRepo) InsertRevision(ctx context.Context, db postgres.Querier, rev insight.Revision) error {
	return nil
}
func (f *fakeInsightRepo) ListRevisions(ctx context.Context, db postgres.Querier, insightID int64) ([]*insight.Revision, error) {
	return nil, nil
}
func (f *fakeInsightRepo) InsertFeedback(ctx context.Context, db postgres.Querier, fb insight.Feedback) error {
	return nil
}
func (f *fakeInsightRepo) FeedbackCountsFor(ctx context.Context, db postgres.Querier, insightIDs []int64) (map[int64]insight.FeedbackCounts, error) {
	return f.counts, nil
}

/*
TestRescore_AdjustsInsightCandidatesOnly verifies helpful/not_relevant
feedback nudges an insight candidate's score while leaving non-insight
candidates untouched.
*/
func TestRescore_AdjustsInsightCandidatesOnly(t *testing.T) {
	repo := &fakeInsightRepo{counts: map[int64]insight.FeedbackCounts{
		1: {Helpful: 2, NotRelevant: 0},
		2: {Helpful: 0, NotRelevant: 1},
	}}

	candidates := []search.Candidate{
		{ID: 1, SourceType: search.SourceInsight, Score: 0.5},
		{ID: 2, SourceType: search.SourceInsight, Score: 0.5},
		{ID: 3, SourceType: search.SourceEpisode, Score: 0.5},
	}

	out, err := search.Rescore(context.Background(), nil, repo, candidates)
	require.NoError(t, err)
	require.Len(t, out, 3)

	byID := make(map[int64]search.Candidate, len(out))
	for _, c := range out {
		byID[c.ID] = c
	}

	assert.InDelta(t, 0.7, byID[1].Score, 1e-9, "two helpful events should add 2*0.1")
	assert.InDelta(t, 0.4, byID[2].Score, 1e-9, "one not_relevant event should subtract 0.1")
	assert.Equal(t, 0.5, byID[3].Score, "non-insight candidates are untouched")
}

/*
TestRescore_ClampsToUnitRange verifies the adjusted score never leaves
[0, 1] regardless of how lopsided the feedback counts are.
*/
func TestRescore_ClampsToUnitRange(t *testing.T) {
	repo := &fakeInsightRepo{counts: map[int64]insight.FeedbackCounts{
		1: {Helpful: 50, NotRelevant: 0},
		2: {Helpful: 0, NotRelevant: 50},
	}}

	candidates := []search.Candidate{
		{ID: 1, SourceType: search.SourceInsight, Score: 0.9},
		{ID: 2, SourceType: search.SourceInsight, Score: 0.1},
	}

	out, err := search.Rescore(context.Background(), nil, repo, candidates)
	require.NoError(t, err)

	for _, c := range out {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 1.0)
	}
}

/*
TestRescore_NoInsightCandidatesSkipsLookup verifies a candidate list
with no insight-sourced entries never calls the repository.
*/
func TestRescore_NoInsightCandidatesSkipsLookup(t *testing.T) {
	repo := &fakeInsightRepo{counts: nil}
	candidates := []search.Candidate{{ID: 1, SourceType: search.SourceEpisode, Score: 0.5}}

	out, err := search.Rescore(context.Background(), nil, repo, candidates)
	require.NoError(t, err)
	assert.Equal(t, candidates, out)
}
