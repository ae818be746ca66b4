// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package insight

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// FeedbackCounts aggregates distinct feedback event counts for one insight,
// the input the IEF Re-scorer needs to adjust a fused score.
type FeedbackCounts struct {
	Helpful     int
	NotRelevant int
}

// Repository defines the data access contract for insights and their
// revision/feedback history. Every method takes an explicit
// [postgres.Querier] so callers control the transaction boundary — a
// mutation and its revision insert always share one transaction.
type Repository interface {

	// Create persists a new insight and assigns its id.
	Create(ctx context.Context, db postgres.Querier, i *Insight) error

	// FindByID returns an insight regardless of its soft-delete state; the
	// caller decides whether a deleted row is acceptable.
	FindByID(ctx context.Context, db postgres.Querier, id int64) (*Insight, error)

	// Update overwrites content/memory_strength/tags and bumps updated_at.
	Update(ctx context.Context, db postgres.Querier, i *Insight) error

	// SoftDelete marks an insight deleted without removing the row.
	SoftDelete(ctx context.Context, db postgres.Querier, id int64, actor, reason string) error

	// InsertRevision appends a revision row; the database trigger assigns
	// the next version_id for the insight.
	InsertRevision(ctx context.Context, db postgres.Querier, rev Revision) error

	// ListRevisions returns an insight's history ordered ascending by
	// version_id.
	ListRevisions(ctx context.Context, db postgres.Querier, insightID int64) ([]*Revision, error)

	// InsertFeedback appends one feedback event.
	InsertFeedback(ctx context.Context, db postgres.Querier, fb Feedback) error

	// FeedbackCountsFor returns distinct helpful/not_relevant counts per
	// insight id, for the IEF Re-scorer's lazy adjustment pass.
	FeedbackCountsFor(ctx context.Context, db postgres.Querier, insightIDs []int64) (map[int64]FeedbackCounts, error)
}
