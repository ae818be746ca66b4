// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stats

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// Repository defines the data access contract for the Stats & Counts
// rollup.
type Repository interface {

	// Rollup returns every memory class's row count for the caller's
	// project in a single round trip.
	Rollup(ctx context.Context, db postgres.Querier) (Counts, error)
}
