// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episodic

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/dberr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// repository implements [Repository] against episodes, working_memory,
// and raw_dialogues.
type repository struct{}

// NewRepository constructs a PostgreSQL-backed episodic repository.
func NewRepository() Repository {
	return &repository{}
}

func (r *repository) InsertEpisode(ctx context.Context, db postgres.Querier, e *Episode) error {
	const query = `
		INSERT INTO episodes (project_id, content, embedding)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := db.QueryRow(ctx, query, e.ProjectID, e.Content, e.Embedding).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "episodic: insert episode")
	}
	return nil
}

func (r *repository) InsertRaw(ctx context.Context, db postgres.Querier, raw *L0Raw) error {
	const query = `
		INSERT INTO raw_dialogues (project_id, content, embedding)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := db.QueryRow(ctx, query, raw.ProjectID, raw.Content, raw.Embedding).Scan(&raw.ID, &raw.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "episodic: insert raw")
	}
	return nil
}

// InsertWorkingMemory evicts the oldest-by-access row of this project
// when the project is already at capacity, then inserts the new row.
// A transaction-scoped advisory lock keyed on the project serializes the
// count, evict and insert statements, so the check-then-evict-then-insert
// sequence is atomic with respect to concurrent writers on the same project.
func (r *repository) InsertWorkingMemory(ctx context.Context, db postgres.Querier, w *WorkingMemory, capacity int) error {
	if _, err := db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, w.ProjectID); err != nil {
		return dberr.Wrap(err, "episodic: lock working memory")
	}

	const countQuery = `SELECT COUNT(*) FROM working_memory WHERE project_id = $1`

	var existing int
	if err := db.QueryRow(ctx, countQuery, w.ProjectID).Scan(&existing); err != nil {
		return dberr.Wrap(err, "episodic: count working memory")
	}

	if existing >= capacity {
		const evictQuery = `
			DELETE FROM working_memory
			WHERE id = (
				SELECT id FROM working_memory
				WHERE project_id = $1
				ORDER BY last_accessed_at ASC
				LIMIT 1
			)
		`
		if _, err := db.Exec(ctx, evictQuery, w.ProjectID); err != nil {
			return dberr.Wrap(err, "episodic: evict working memory")
		}
	}

	const insertQuery = `
		INSERT INTO working_memory (project_id, content, embedding, last_accessed_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, last_accessed_at, created_at
	`
	err := db.QueryRow(ctx, insertQuery, w.ProjectID, w.Content, w.Embedding).
		Scan(&w.ID, &w.LastAccessedAt, &w.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "episodic: insert working memory")
	}
	return nil
}

func (r *repository) TouchWorkingMemory(ctx context.Context, db postgres.Querier, id int64) error {
	const query = `UPDATE working_memory SET last_accessed_at = NOW() WHERE id = $1`

	result, err := db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "episodic: touch working memory")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (r *repository) CountEpisodes(ctx context.Context, db postgres.Querier) (int64, error) {
	var count int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM episodes").Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "episodic: count episodes")
	}
	return count, nil
}

func (r *repository) CountWorkingMemory(ctx context.Context, db postgres.Querier) (int64, error) {
	var count int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM working_memory").Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "episodic: count working memory")
	}
	return count, nil
}

func (r *repository) CountRaw(ctx context.Context, db postgres.Querier) (int64, error) {
	var count int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM raw_dialogues").Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "episodic: count raw")
	}
	return count, nil
}
