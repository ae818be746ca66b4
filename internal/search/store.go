// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// Repository performs the per-source candidate generation queries
// described by the Vector/FTS Search component. Each method applies the
// given [Filter] and returns up to limit candidates, unranked beyond
// what the underlying query already orders by similarity/rank.
type Repository interface {
	SearchInsightsVector(ctx context.Context, db postgres.Querier, embedding pgvector.Vector, f Filter, limit int) ([]Candidate, error)
	SearchInsightsLexical(ctx context.Context, db postgres.Querier, queryText string, f Filter, limit int) ([]Candidate, error)
	SearchEpisodesVector(ctx context.Context, db postgres.Querier, embedding pgvector.Vector, f Filter, limit int) ([]Candidate, error)
	SearchRawVector(ctx context.Context, db postgres.Querier, embedding pgvector.Vector, f Filter, limit int) ([]Candidate, error)
}
