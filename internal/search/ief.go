// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"github.com/cogmem/memoryd/internal/insight"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// iefStep is the per-event adjustment applied for each distinct helpful
// or not_relevant feedback event.
const iefStep = 0.1

// Rescore applies the Insight-Effectiveness Feedback lazy adjustment to
// every insight-sourced candidate in place: the candidate's fused score
// moves by up to iefStep per distinct helpful event (capped at 1.0) and
// down by up to iefStep per distinct not_relevant event (floored at
// 0.0), before a final clamp to the legal [0,1] range. not_now events
// have no effect. Non-insight candidates are returned unchanged.
//
// Feedback is read fresh on every call — this is the only place feedback
// ever influences ranking; submission itself never recomputes a score.
func Rescore(ctx context.Context, db postgres.Querier, repo insight.Repository, candidates []Candidate) ([]Candidate, error) {
	var insightIDs []int64
	for _, c := range candidates {
		if c.SourceType == SourceInsight {
			insightIDs = append(insightIDs, c.ID)
		}
	}
	if len(insightIDs) == 0 {
		return candidates, nil
	}

	counts, err := repo.FeedbackCountsFor(ctx, db, insightIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		if c.SourceType != SourceInsight {
			out[i] = c
			continue
		}
		fc := counts[c.ID]
		adjusted := c.Score + iefStep*float64(fc.Helpful) - iefStep*float64(fc.NotRelevant)
		out[i] = c
		out[i].Score = clamp01(adjusted)
	}

	sortCandidates(out)
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
