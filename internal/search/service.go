// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/cogmem/memoryd/internal/embedding"
	"github.com/cogmem/memoryd/internal/graph"
	"github.com/cogmem/memoryd/internal/insight"
	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// DefaultCandidateLimit bounds how many rows each per-source,
// per-variant query returns before fusion.
const DefaultCandidateLimit = 20

// Service orchestrates query-variant expansion, per-source candidate
// generation fanned out concurrently, Reciprocal Rank Fusion, and the
// IEF re-scoring pass.
type Service struct {
	pool     *pgxpool.Pool
	repo     Repository
	insights insight.Repository
	graphSvc *graph.Service
	embedder embedding.Gateway
	logger   *slog.Logger
}

// NewService constructs a [Service].
func NewService(pool *pgxpool.Pool, repo Repository, insights insight.Repository, graphSvc *graph.Service, embedder embedding.Gateway, logger *slog.Logger) *Service {
	return &Service{pool: pool, repo: repo, insights: insights, graphSvc: graphSvc, embedder: embedder, logger: logger}
}

// Query expands queryText into semantic variants, embeds and searches
// each variant's candidate sources concurrently, fuses every variant's
// ranked list with [FuseRRF], and applies the lazy IEF adjustment to the
// fused result. A hard failure in any variant's fan-out cancels the
// remaining in-flight generators and is returned in full — partial
// degraded results are never silently substituted for a failed variant.
func (s *Service) Query(ctx context.Context, currentProject, queryText string, f Filter, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	variants := ExpandQuery(queryText)
	perVariant := make([][]Candidate, len(variants))

	group, gctx := errgroup.WithContext(ctx)
	for i, variant := range variants {
		i, variant := i, variant
		group.Go(func() error {
			candidates, err := s.searchVariant(gctx, tx, variant, f, limit)
			if err != nil {
				return err
			}
			perVariant[i] = candidates
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	fused := FuseRRF(perVariant, RRFConstant)

	rescored, err := Rescore(ctx, tx, s.insights, fused)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	if len(rescored) > limit {
		rescored = rescored[:limit]
	}
	return rescored, nil
}

// searchVariant embeds one query variant and gathers its candidates from
// every source type the filter allows.
func (s *Service) searchVariant(ctx context.Context, db postgres.Querier, variant string, f Filter, limit int) ([]Candidate, error) {
	vec, err := s.embedder.Embed(ctx, variant)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate

	if shouldIncludeSourceType(f.SourceTypeFilter, SourceInsight) {
		vectorHits, err := s.repo.SearchInsightsVector(ctx, db, vec, f, limit)
		if err != nil {
			return nil, err
		}
		lexicalHits, err := s.repo.SearchInsightsLexical(ctx, db, variant, f, limit)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, vectorHits...)
		candidates = append(candidates, lexicalHits...)
	}

	if shouldIncludeSourceType(f.SourceTypeFilter, SourceEpisode) {
		episodeHits, err := s.repo.SearchEpisodesVector(ctx, db, vec, f, limit)
		if err != nil {
			return nil, err
		}
		rawHits, err := s.repo.SearchRawVector(ctx, db, vec, f, limit)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, episodeHits...)
		candidates = append(candidates, rawHits...)
	}

	return candidates, nil
}

// ExpandGraph walks outward from explicitly named seed nodes, tagging
// every reached neighbour as a [SourceGraph] candidate so callers can
// fold graph context into a fused result alongside [Query]'s output.
// Seeding from matched insight ids is not supported: no table
// correlates an insight with a graph node, so expansion only starts
// from nodes the caller names directly.
func (s *Service) ExpandGraph(ctx context.Context, currentProject string, seedNodeIDs []int64, f Filter, depth int) ([]Candidate, error) {
	if !shouldIncludeSourceType(f.SourceTypeFilter, SourceGraph) {
		return nil, nil
	}

	neighbours, err := s.graphSvc.Expand(ctx, currentProject, seedNodeIDs, depth, f.SectorFilter)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(neighbours))
	for _, nb := range neighbours {
		candidates = append(candidates, Candidate{
			ID:         nb.Node.ID,
			Score:      1,
			SourceType: SourceGraph,
			CreatedAt:  nb.Node.CreatedAt,
			Payload: map[string]any{
				"relation":      nb.Edge.Relation,
				"memory_sector": nb.Edge.MemorySector,
				"node_name":     nb.Node.Name,
			},
		})
	}
	return candidates, nil
}
