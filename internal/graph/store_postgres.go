// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package graph

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/cogmem/memoryd/internal/platform/dberr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// repository implements [Repository] against graph_nodes / graph_edges.
type repository struct{}

// NewRepository constructs a PostgreSQL-backed graph repository.
func NewRepository() Repository {
	return &repository{}
}

func (r *repository) UpsertNode(ctx context.Context, db postgres.Querier, n *Node) error {
	const query = `
		INSERT INTO graph_nodes (project_id, name, properties)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, name) DO UPDATE SET updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRow(ctx, query, n.ProjectID, n.Name, n.Properties).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "graph: upsert node")
	}
	return nil
}

func (r *repository) UpsertEdge(ctx context.Context, db postgres.Querier, e *Edge) error {
	const query = `
		INSERT INTO graph_edges (project_id, source_node_id, target_node_id, relation, memory_sector, properties)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (source_node_id, target_node_id, relation) DO NOTHING
		RETURNING id, created_at
	`

	err := db.QueryRow(ctx, query,
		e.ProjectID, e.SourceNodeID, e.TargetNodeID, e.Relation, e.MemorySector, e.Properties,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return dberr.Wrap(err, "graph: upsert edge")
	}
	return nil
}

func (r *repository) FindNodeByName(ctx context.Context, db postgres.Querier, name string) (*Node, error) {
	const query = `
		SELECT id, project_id, name, properties, created_at, updated_at
		FROM graph_nodes
		WHERE name = $1
	`

	var n Node
	err := db.QueryRow(ctx, query, name).Scan(&n.ID, &n.ProjectID, &n.Name, &n.Properties, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "graph: find node by name")
	}
	return &n, nil
}

func (r *repository) Expand(ctx context.Context, db postgres.Querier, seedNodeIDs []int64, maxDepth int, sectorFilter []string) ([]Neighbour, error) {
	const query = `
		WITH RECURSIVE walk AS (
			SELECT e.id AS edge_id, e.project_id, e.source_node_id, e.target_node_id,
				e.relation, e.memory_sector, e.properties, e.created_at, 1 AS depth
			FROM graph_edges e
			WHERE e.source_node_id = ANY($1)
				AND (cardinality($3::text[]) = 0 OR e.memory_sector = ANY($3))

			UNION ALL

			SELECT e.id, e.project_id, e.source_node_id, e.target_node_id,
				e.relation, e.memory_sector, e.properties, e.created_at, w.depth + 1
			FROM graph_edges e
			JOIN walk w ON e.source_node_id = w.target_node_id
			WHERE w.depth < $2
				AND (cardinality($3::text[]) = 0 OR e.memory_sector = ANY($3))
		)
		SELECT DISTINCT ON (n.id)
			w.edge_id, w.project_id, w.source_node_id, w.target_node_id,
			w.relation, w.memory_sector, w.properties, w.created_at,
			n.id, n.project_id, n.name, n.properties, n.created_at, n.updated_at
		FROM walk w
		JOIN graph_nodes n ON n.id = w.target_node_id
		ORDER BY n.id, w.depth ASC
	`

	rows, err := db.Query(ctx, query, seedNodeIDs, maxDepth, sectorFilter)
	if err != nil {
		return nil, dberr.Wrap(err, "graph: expand")
	}
	defer rows.Close()

	var neighbours []Neighbour
	for rows.Next() {
		var nb Neighbour
		err := rows.Scan(
			&nb.Edge.ID, &nb.Edge.ProjectID, &nb.Edge.SourceNodeID, &nb.Edge.TargetNodeID,
			&nb.Edge.Relation, &nb.Edge.MemorySector, &nb.Edge.Properties, &nb.Edge.CreatedAt,
			&nb.Node.ID, &nb.Node.ProjectID, &nb.Node.Name, &nb.Node.Properties,
			&nb.Node.CreatedAt, &nb.Node.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "graph: scan neighbour")
		}
		neighbours = append(neighbours, nb)
	}
	return neighbours, nil
}

func (r *repository) CountNodes(ctx context.Context, db postgres.Querier) (int64, error) {
	var count int64
	err := db.QueryRow(ctx, "SELECT COUNT(*) FROM graph_nodes").Scan(&count)
	if err != nil {
		return 0, dberr.Wrap(err, "graph: count nodes")
	}
	return count, nil
}

func (r *repository) CountEdges(ctx context.Context, db postgres.Querier) (int64, error) {
	var count int64
	err := db.QueryRow(ctx, "SELECT COUNT(*) FROM graph_edges").Scan(&count)
	if err != nil {
		return 0, dberr.Wrap(err, "graph: count edges")
	}
	return count, nil
}
