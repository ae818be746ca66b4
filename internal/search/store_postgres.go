// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/cogmem/memoryd/internal/platform/dberr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// repository implements [Repository] with direct SQL against the tables
// owned by the insight, episodic, and graph packages. Vector/FTS Search
// is a read-only cross-cutting component: it does not duplicate those
// packages' write paths, only their filter/ranking discipline.
type repository struct{}

// NewRepository constructs a PostgreSQL-backed search repository.
func NewRepository() Repository {
	return &repository{}
}

func (r *repository) SearchInsightsVector(ctx context.Context, db postgres.Querier, embedding pgvector.Vector, f Filter, limit int) ([]Candidate, error) {
	const query = `
		SELECT id, memory_strength, created_at, 1 - (embedding <=> $1) AS similarity, tags
		FROM l2_insights
		WHERE is_deleted = FALSE
			AND (COALESCE(cardinality($2::text[]), 0) = 0 OR tags && $2)
			AND ($3::timestamptz IS NULL OR created_at >= $3)
			AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY embedding <=> $1
		LIMIT $5
	`

	rows, err := db.Query(ctx, query, embedding, f.TagsFilter, f.DateFrom, f.DateTo, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "search: insights vector")
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		var tags []string
		if err := rows.Scan(&c.ID, &c.MemoryStrength, &c.CreatedAt, &c.Score, &tags); err != nil {
			return nil, dberr.Wrap(err, "search: scan insights vector")
		}
		c.SourceType = SourceInsight
		c.Payload = map[string]any{"tags": tags}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (r *repository) SearchInsightsLexical(ctx context.Context, db postgres.Querier, queryText string, f Filter, limit int) ([]Candidate, error) {
	const query = `
		SELECT id, memory_strength, created_at,
			ts_rank(to_tsvector('english', content), plainto_tsquery('english', $1)) AS rank,
			tags
		FROM l2_insights
		WHERE is_deleted = FALSE
			AND to_tsvector('english', content) @@ plainto_tsquery('english', $1)
			AND (COALESCE(cardinality($2::text[]), 0) = 0 OR tags && $2)
			AND ($3::timestamptz IS NULL OR created_at >= $3)
			AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY rank DESC
		LIMIT $5
	`

	rows, err := db.Query(ctx, query, queryText, f.TagsFilter, f.DateFrom, f.DateTo, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "search: insights lexical")
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		var tags []string
		if err := rows.Scan(&c.ID, &c.MemoryStrength, &c.CreatedAt, &c.Score, &tags); err != nil {
			return nil, dberr.Wrap(err, "search: scan insights lexical")
		}
		c.SourceType = SourceInsight
		c.Payload = map[string]any{"tags": tags}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (r *repository) SearchEpisodesVector(ctx context.Context, db postgres.Querier, embedding pgvector.Vector, f Filter, limit int) ([]Candidate, error) {
	const query = `
		SELECT id, created_at, 1 - (embedding <=> $1) AS similarity
		FROM episodes
		WHERE ($2::timestamptz IS NULL OR created_at >= $2)
			AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY embedding <=> $1
		LIMIT $4
	`

	rows, err := db.Query(ctx, query, embedding, f.DateFrom, f.DateTo, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "search: episodes vector")
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Score); err != nil {
			return nil, dberr.Wrap(err, "search: scan episodes vector")
		}
		c.SourceType = SourceEpisode
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (r *repository) SearchRawVector(ctx context.Context, db postgres.Querier, embedding pgvector.Vector, f Filter, limit int) ([]Candidate, error) {
	const query = `
		SELECT id, created_at, 1 - (embedding <=> $1) AS similarity
		FROM raw_dialogues
		WHERE ($2::timestamptz IS NULL OR created_at >= $2)
			AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY embedding <=> $1
		LIMIT $4
	`

	rows, err := db.Query(ctx, query, embedding, f.DateFrom, f.DateTo, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "search: raw vector")
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Score); err != nil {
			return nil, dberr.Wrap(err, "search: scan raw vector")
		}
		// Raw dialogues have no separate slot in source_type_filter's
		// {insight, episode, graph} enum; they are classified with
		// episodes for filtering purposes.
		c.SourceType = SourceEpisode
		candidates = append(candidates, c)
	}
	return candidates, nil
}
