// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import (
	"context"

	"github.com/cogmem/memoryd/internal/platform/postgres"
)

// Repository defines the data access contract for proposals.
type Repository interface {

	// Create persists a new pending proposal and assigns its id and
	// created_at.
	Create(ctx context.Context, db postgres.Querier, p *Proposal) error

	// FindByID returns a proposal regardless of its status.
	FindByID(ctx context.Context, db postgres.Querier, id int64) (*Proposal, error)

	// SettlePending transitions a proposal out of pending via a
	// status-guarded UPDATE. It reports whether this call performed the
	// transition (true) or observed the proposal already settled by a
	// prior attempt (false) — the caller uses this to decide whether to
	// execute the underlying mutation.
	SettlePending(ctx context.Context, db postgres.Querier, id int64, status, reviewer, reviewNotes string) (bool, error)
}
