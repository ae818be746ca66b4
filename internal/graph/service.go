// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package graph

import (
	stdctx "context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
	"github.com/cogmem/memoryd/pkg/slug"
)

// DefaultExpansionDepth and MaxExpansionDepth bound graph traversal.
// Neither is named by the retrieved reference material; both are picked
// conservatively to keep a single Expand call's fan-out predictable
// against an unbounded-branching graph.
const (
	DefaultExpansionDepth = 2
	MaxExpansionDepth     = 4
)

// Service implements graph neighbour expansion for the search layer, and
// simple node/edge upsert for ingestion.
type Service struct {
	pool   *pgxpool.Pool
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a [Service].
func NewService(pool *pgxpool.Pool, repo Repository, logger *slog.Logger) *Service {
	return &Service{pool: pool, repo: repo, logger: logger}
}

// Link upserts a node pair and the edge connecting them, all within one
// project-scoped transaction.
func (s *Service) Link(ctx stdctx.Context, currentProject string, sourceName, targetName, relation, sector string, properties map[string]any) (*Edge, error) {
	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Canonicalized so "Alice" and "alice" resolve to the same node under
	// the (project_id, name) unique constraint.
	source := &Node{ProjectID: currentProject, Name: slug.Canonicalize(sourceName), Properties: map[string]any{}}
	target := &Node{ProjectID: currentProject, Name: slug.Canonicalize(targetName), Properties: map[string]any{}}
	if err := s.repo.UpsertNode(ctx, tx, source); err != nil {
		return nil, err
	}
	if err := s.repo.UpsertNode(ctx, tx, target); err != nil {
		return nil, err
	}

	edge := &Edge{
		ProjectID:    currentProject,
		SourceNodeID: source.ID,
		TargetNodeID: target.ID,
		Relation:     relation,
		MemorySector: sector,
		Properties:   properties,
	}
	if err := s.repo.UpsertEdge(ctx, tx, edge); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return edge, nil
}

// Expand walks outward from seedNodeIDs up to depth hops (clamped to
// [1, MaxExpansionDepth]; zero or negative selects [DefaultExpansionDepth]),
// optionally restricted to sectorFilter.
func (s *Service) Expand(ctx stdctx.Context, currentProject string, seedNodeIDs []int64, depth int, sectorFilter []string) ([]Neighbour, error) {
	if depth <= 0 {
		depth = DefaultExpansionDepth
	}
	if depth > MaxExpansionDepth {
		depth = MaxExpansionDepth
	}
	if len(seedNodeIDs) == 0 {
		return nil, nil
	}

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	neighbours, err := s.repo.Expand(ctx, tx, seedNodeIDs, depth, sectorFilter)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return neighbours, nil
}
