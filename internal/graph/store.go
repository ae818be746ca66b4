// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package graph

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// Repository defines the data access contract for the graph memory class.
type Repository interface {

	// UpsertNode creates a node or, if one with the same project/name
	// already exists, returns it with only updated_at refreshed (its
	// properties are left as they were). Name is the logical key.
	UpsertNode(ctx context.Context, db postgres.Querier, n *Node) error

	// UpsertEdge creates an edge or is a no-op if one with the same
	// (source, target, relation) already exists.
	UpsertEdge(ctx context.Context, db postgres.Querier, e *Edge) error

	// FindNodeByName looks up a node by its project-scoped logical key.
	FindNodeByName(ctx context.Context, db postgres.Querier, name string) (*Node, error)

	// Expand walks edges outward from the given seed node ids up to
	// maxDepth hops, optionally restricted to sectorFilter, and returns
	// every edge/node pair reached. A node is visited at most once even
	// if reachable via multiple paths.
	Expand(ctx context.Context, db postgres.Querier, seedNodeIDs []int64, maxDepth int, sectorFilter []string) ([]Neighbour, error)

	// CountNodes and CountEdges back the Stats & Counts rollup.
	CountNodes(ctx context.Context, db postgres.Querier) (int64, error)
	CountEdges(ctx context.Context, db postgres.Querier) (int64, error)
}
