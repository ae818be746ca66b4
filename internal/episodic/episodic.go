// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package episodic implements the episode, working-memory, and raw-dialogue
memory classes. Working memory is the only bounded-capacity class in the
system: writing past its per-project limit evicts the least-recently-
accessed row of the same project, transactionally, rather than relying on
an in-process cache.
*/
package episodic

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Episode is a derived memory summarizing a bounded span of interaction,
// embedded for retrieval like an insight but without curation history.
type Episode struct {
	ID        int64
	ProjectID string
	Content   string
	Embedding pgvector.Vector
	CreatedAt time.Time
}

// WorkingMemory is a short-lived, capacity-bounded memory slot. Access
// bumps LastAccessedAt, which is what eviction orders by.
type WorkingMemory struct {
	ID             int64
	ProjectID      string
	Content        string
	Embedding      pgvector.Vector
	LastAccessedAt time.Time
	CreatedAt      time.Time
}

// L0Raw is an unprocessed raw dialogue turn, the lowest memory tier,
// retained for provenance and raw-memory search.
type L0Raw struct {
	ID        int64
	ProjectID string
	Content   string
	Embedding pgvector.Vector
	CreatedAt time.Time
}
