// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stats

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/dberr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// repository implements [Repository] via a single UNION ALL query
// against the six counted tables — the RLS predicate on each table
// already restricts counts to the caller's project, since db is a
// project-scoped transaction.
type repository struct{}

// NewRepository constructs a PostgreSQL-backed stats repository.
func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Rollup(ctx context.Context, db postgres.Querier) (Counts, error) {
	const query = `
		SELECT 'graph_nodes', COUNT(*) FROM graph_nodes
		UNION ALL
		SELECT 'graph_edges', COUNT(*) FROM graph_edges
		UNION ALL
		SELECT 'l2_insights', COUNT(*) FROM l2_insights WHERE is_deleted = FALSE
		UNION ALL
		SELECT 'episodes', COUNT(*) FROM episodes
		UNION ALL
		SELECT 'working_memory', COUNT(*) FROM working_memory
		UNION ALL
		SELECT 'raw_dialogues', COUNT(*) FROM raw_dialogues
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return Counts{}, dberr.Wrap(err, "stats: rollup")
	}
	defer rows.Close()

	var c Counts
	for rows.Next() {
		var table string
		var count int64
		if err := rows.Scan(&table, &count); err != nil {
			return Counts{}, dberr.Wrap(err, "stats: scan rollup")
		}
		switch table {
		case "graph_nodes":
			c.GraphNodes = count
		case "graph_edges":
			c.GraphEdges = count
		case "l2_insights":
			c.Insights = count
		case "episodes":
			c.Episodes = count
		case "working_memory":
			c.WorkingMemory = count
		case "raw_dialogues":
			c.RawDialogues = count
		}
	}
	return c, nil
}
