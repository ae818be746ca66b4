// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cogmem/memoryd/internal/platform/dberr"
)

// repository implements [Repository] using pgx against the core schema.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed Access-Control repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetProject(ctx context.Context, projectID string) (*Project, error) {
	const query = `
		SELECT project_id, name, access_level, created_at, updated_at
		FROM projects
		WHERE project_id = $1
	`

	var p Project
	err := r.pool.QueryRow(ctx, query, projectID).Scan(
		&p.ProjectID, &p.Name, &p.AccessLevel, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "access: get project")
	}
	return &p, nil
}

func (r *repository) ListReadGrantTargets(ctx context.Context, readerProjectID string) ([]string, error) {
	const query = `
		SELECT target_project_id
		FROM project_read_grants
		WHERE reader_project_id = $1
	`

	rows, err := r.pool.Query(ctx, query, readerProjectID)
	if err != nil {
		return nil, dberr.Wrap(err, "access: list read grants")
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, dberr.Wrap(err, "access: scan read grant")
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (r *repository) GetRLSStatus(ctx context.Context, projectID string) (*RLSStatus, error) {
	const query = `
		SELECT project_id, phase, enabled, updated_at
		FROM rls_status
		WHERE project_id = $1
	`

	var status RLSStatus
	err := r.pool.QueryRow(ctx, query, projectID).Scan(
		&status.ProjectID, &status.Phase, &status.Enabled, &status.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "access: get rls status")
	}
	return &status, nil
}

func (r *repository) ListViolations(ctx context.Context, projectIDs []string, limit int) ([]ViolationLog, error) {
	const query = `
		SELECT id, project_id, attempted_table, current_project, observed_at
		FROM access_violation_log
		WHERE ($1::text[] IS NULL OR project_id = ANY($1))
		ORDER BY observed_at DESC
		LIMIT $2
	`

	var filter []string
	if len(projectIDs) > 0 {
		filter = projectIDs
	}

	rows, err := r.pool.Query(ctx, query, filter, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "access: list violations")
	}
	defer rows.Close()

	var entries []ViolationLog
	for rows.Next() {
		var v ViolationLog
		if err := rows.Scan(&v.ID, &v.ProjectID, &v.AttemptedTable, &v.CurrentProject, &v.ObservedAt); err != nil {
			return nil, dberr.Wrap(err, "access: scan violation")
		}
		entries = append(entries, v)
	}
	return entries, nil
}

func (r *repository) TrimViolationLog(ctx context.Context, projectID string, keep int) error {
	const query = `
		DELETE FROM access_violation_log
		WHERE project_id = $1
		AND id NOT IN (
			SELECT id FROM access_violation_log
			WHERE project_id = $1
			ORDER BY observed_at DESC
			LIMIT $2
		)
	`

	_, err := r.pool.Exec(ctx, query, projectID, keep)
	if err != nil {
		return dberr.Wrap(err, "access: trim violation log")
	}
	return nil
}

func (r *repository) RecordBypassAssumed(ctx context.Context, actor, reason string) (int64, error) {
	const query = `
		INSERT INTO emergency_bypass_audit (actor, reason, assumed_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`

	var auditID int64
	err := r.pool.QueryRow(ctx, query, actor, reason).Scan(&auditID)
	if err != nil {
		return 0, dberr.Wrap(err, "access: record bypass assumed")
	}
	return auditID, nil
}

func (r *repository) RecordBypassReleased(ctx context.Context, auditID int64) error {
	const query = `
		UPDATE emergency_bypass_audit
		SET released_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, auditID)
	if err != nil {
		return dberr.Wrap(err, "access: record bypass released")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
