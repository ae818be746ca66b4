// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/dberr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// repository implements [Repository] against the proposals table.
type repository struct{}

// NewRepository constructs a PostgreSQL-backed proposal repository.
func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, db postgres.Querier, p *Proposal) error {
	const query = `
		INSERT INTO proposals (
			project_id, action_kind, action_insight_id, reasoning,
			original_state, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := db.QueryRow(ctx, query,
		p.ProjectID, p.ProposedAction.Kind, p.ProposedAction.InsightID,
		p.Reasoning, p.OriginalState, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "proposal: create")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, db postgres.Querier, id int64) (*Proposal, error) {
	const query = `
		SELECT id, project_id, action_kind, action_insight_id, reasoning,
			original_state, status, reviewer, review_notes, created_at, reviewed_at
		FROM proposals
		WHERE id = $1
	`

	var p Proposal
	err := db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ProjectID, &p.ProposedAction.Kind, &p.ProposedAction.InsightID, &p.Reasoning,
		&p.OriginalState, &p.Status, &p.Reviewer, &p.ReviewNotes, &p.CreatedAt, &p.ReviewedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "proposal: find by id")
	}
	return &p, nil
}

func (r *repository) SettlePending(ctx context.Context, db postgres.Querier, id int64, status, reviewer, reviewNotes string) (bool, error) {
	const query = `
		UPDATE proposals
		SET status = $1, reviewer = $2, review_notes = $3, reviewed_at = NOW()
		WHERE id = $4 AND status = $5
	`

	result, err := db.Exec(ctx, query, status, reviewer, reviewNotes, id, StatusPending)
	if err != nil {
		return false, dberr.Wrap(err, "proposal: settle pending")
	}
	return result.RowsAffected() == 1, nil
}
