// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episodic

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/constants"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// Service implements writes and lookups for the episode, working-memory,
// and raw-dialogue memory classes.
type Service struct {
	pool   *pgxpool.Pool
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a [Service].
func NewService(pool *pgxpool.Pool, repo Repository, logger *slog.Logger) *Service {
	return &Service{pool: pool, repo: repo, logger: logger}
}

// RecordEpisode persists a derived episode summary.
func (s *Service) RecordEpisode(ctx context.Context, currentProject, content string, embedding pgvector.Vector) (*Episode, error) {
	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	e := &Episode{ProjectID: currentProject, Content: content, Embedding: embedding}
	if err := s.repo.InsertEpisode(ctx, tx, e); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return e, nil
}

// RecordRaw persists an unprocessed dialogue turn.
func (s *Service) RecordRaw(ctx context.Context, currentProject, content string, embedding pgvector.Vector) (*L0Raw, error) {
	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	raw := &L0Raw{ProjectID: currentProject, Content: content, Embedding: embedding}
	if err := s.repo.InsertRaw(ctx, tx, raw); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return raw, nil
}

// Remember writes a working-memory slot, evicting the project's
// least-recently-accessed slot first if it is already at capacity.
// capacity <= 0 selects [constants.DefaultWorkingMemoryCapacity].
func (s *Service) Remember(ctx context.Context, currentProject, content string, embedding pgvector.Vector, capacity int) (*WorkingMemory, error) {
	if capacity <= 0 {
		capacity = constants.DefaultWorkingMemoryCapacity
	}

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	w := &WorkingMemory{ProjectID: currentProject, Content: content, Embedding: embedding}
	if err := s.repo.InsertWorkingMemory(ctx, tx, w, capacity); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.InfoContext(ctx, "working_memory_written", slog.Int64("id", w.ID), slog.String("project_id", currentProject))
	return w, nil
}

// Recall touches a working-memory slot's access time, keeping it off the
// next eviction.
func (s *Service) Recall(ctx context.Context, currentProject string, id int64) error {
	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.TouchWorkingMemory(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
