// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package insight

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/dberr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// repository implements [Repository] against the l2_insights /
// l2_insight_history / insight_feedback tables.
type repository struct{}

// NewRepository constructs a PostgreSQL-backed insight repository.
func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, db postgres.Querier, i *Insight) error {
	const query = `
		INSERT INTO l2_insights (
			project_id, content, embedding, source_ids, metadata, tags, memory_strength
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRow(ctx, query,
		i.ProjectID, i.Content, i.Embedding, i.SourceIDs, i.Metadata, i.Tags, i.MemoryStrength,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "insight: create")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, db postgres.Querier, id int64) (*Insight, error) {
	const query = `
		SELECT id, project_id, content, embedding, source_ids, metadata, tags,
			memory_strength, is_deleted, deleted_at, deleted_by, deleted_reason,
			created_at, updated_at
		FROM l2_insights
		WHERE id = $1
	`

	var i Insight
	err := db.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.ProjectID, &i.Content, &i.Embedding, &i.SourceIDs, &i.Metadata, &i.Tags,
		&i.MemoryStrength, &i.IsDeleted, &i.DeletedAt, &i.DeletedBy, &i.DeletedReason,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insight: find by id")
	}
	return &i, nil
}

func (r *repository) Update(ctx context.Context, db postgres.Querier, i *Insight) error {
	const query = `
		UPDATE l2_insights
		SET content = $1, memory_strength = $2, tags = $3, updated_at = NOW()
		WHERE id = $4 AND is_deleted = FALSE
	`

	result, err := db.Exec(ctx, query, i.Content, i.MemoryStrength, i.Tags, i.ID)
	if err != nil {
		return dberr.Wrap(err, "insight: update")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, db postgres.Querier, id int64, actor, reason string) error {
	const query = `
		UPDATE l2_insights
		SET is_deleted = TRUE, deleted_at = NOW(), deleted_by = $1, deleted_reason = $2
		WHERE id = $3 AND is_deleted = FALSE
	`

	result, err := db.Exec(ctx, query, actor, reason, id)
	if err != nil {
		return dberr.Wrap(err, "insight: soft delete")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (r *repository) InsertRevision(ctx context.Context, db postgres.Querier, rev Revision) error {
	const query = `
		INSERT INTO l2_insight_history (
			insight_id, action, actor, old_content, old_memory_strength,
			new_content, new_memory_strength, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := db.Exec(ctx, query,
		rev.InsightID, rev.Action, rev.Actor, rev.OldContent, rev.OldMemoryStrength,
		rev.NewContent, rev.NewMemoryStrength, rev.Reason,
	)
	if err != nil {
		return dberr.Wrap(err, "insight: insert revision")
	}
	return nil
}

func (r *repository) ListRevisions(ctx context.Context, db postgres.Querier, insightID int64) ([]*Revision, error) {
	const query = `
		SELECT insight_id, version_id, action, actor, old_content, old_memory_strength,
			new_content, new_memory_strength, reason, created_at
		FROM l2_insight_history
		WHERE insight_id = $1
		ORDER BY version_id ASC
	`

	rows, err := db.Query(ctx, query, insightID)
	if err != nil {
		return nil, dberr.Wrap(err, "insight: list revisions")
	}
	defer rows.Close()

	var revisions []*Revision
	for rows.Next() {
		var rev Revision
		err := rows.Scan(
			&rev.InsightID, &rev.VersionID, &rev.Action, &rev.Actor,
			&rev.OldContent, &rev.OldMemoryStrength, &rev.NewContent, &rev.NewMemoryStrength,
			&rev.Reason, &rev.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "insight: scan revision")
		}
		revisions = append(revisions, &rev)
	}
	return revisions, nil
}

func (r *repository) InsertFeedback(ctx context.Context, db postgres.Querier, fb Feedback) error {
	const query = `
		INSERT INTO insight_feedback (insight_id, feedback_type, context)
		VALUES ($1, $2, $3)
	`

	_, err := db.Exec(ctx, query, fb.InsightID, fb.Type, fb.Context)
	if err != nil {
		return dberr.Wrap(err, "insight: insert feedback")
	}
	return nil
}

func (r *repository) FeedbackCountsFor(ctx context.Context, db postgres.Querier, insightIDs []int64) (map[int64]FeedbackCounts, error) {
	counts := make(map[int64]FeedbackCounts, len(insightIDs))
	if len(insightIDs) == 0 {
		return counts, nil
	}

	const query = `
		SELECT insight_id, feedback_type, COUNT(*)
		FROM insight_feedback
		WHERE insight_id = ANY($1) AND feedback_type IN ($2, $3)
		GROUP BY insight_id, feedback_type
	`

	rows, err := db.Query(ctx, query, insightIDs, FeedbackHelpful, FeedbackNotRelevant)
	if err != nil {
		return nil, dberr.Wrap(err, "insight: feedback counts")
	}
	defer rows.Close()

	for rows.Next() {
		var insightID int64
		var feedbackType string
		var count int
		if err := rows.Scan(&insightID, &feedbackType, &count); err != nil {
			return nil, dberr.Wrap(err, "insight: scan feedback counts")
		}
		entry := counts[insightID]
		switch feedbackType {
		case FeedbackHelpful:
			entry.Helpful = count
		case FeedbackNotRelevant:
			entry.NotRelevant = count
		}
		counts[insightID] = entry
	}
	return counts, nil
}
