// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stats

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// Service exposes the Stats & Counts rollup.
type Service struct {
	pool *pgxpool.Pool
	repo Repository
}

// NewService constructs a [Service].
func NewService(pool *pgxpool.Pool, repo Repository) *Service {
	return &Service{pool: pool, repo: repo}
}

// Rollup returns the current counts for the caller's project.
func (s *Service) Rollup(ctx context.Context, currentProject string) (Counts, error) {
	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return Counts{}, err
	}
	defer tx.Rollback(ctx)

	counts, err := s.repo.Rollup(ctx, tx)
	if err != nil {
		return Counts{}, err
	}
	counts.AsOf = time.Now()

	if err := tx.Commit(ctx); err != nil {
		return Counts{}, apperr.Internal(err)
	}
	return counts, nil
}
