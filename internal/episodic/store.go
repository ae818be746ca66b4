// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episodic

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// Repository defines the data access contract for the episode,
// working-memory, and raw-dialogue memory classes.
type Repository interface {
	InsertEpisode(ctx context.Context, db postgres.Querier, e *Episode) error
	InsertRaw(ctx context.Context, db postgres.Querier, raw *L0Raw) error

	// InsertWorkingMemory writes a working-memory row, evicting the
	// least-recently-accessed row of the same project first if doing so
	// would exceed capacity. Eviction and insert share the caller's
	// transaction.
	InsertWorkingMemory(ctx context.Context, db postgres.Querier, w *WorkingMemory, capacity int) error

	// TouchWorkingMemory bumps last_accessed_at for an accessed row,
	// keeping it off the eviction candidate list.
	TouchWorkingMemory(ctx context.Context, db postgres.Querier, id int64) error

	CountEpisodes(ctx context.Context, db postgres.Querier) (int64, error)
	CountWorkingMemory(ctx context.Context, db postgres.Querier) (int64, error)
	CountRaw(ctx context.Context, db postgres.Querier) (int64, error)
}
