// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package insight implements the Curation Service: soft-delete with revision
history, immediate update and delete, and the Insight-Effectiveness
Feedback submission path. This package does not gate mutations by actor:
the tool layer routes a non-privileged delete through package proposal and
rejects a non-privileged update outright, without raising a proposal.

Insights are the primary curated memory class: free-text content plus a
dense embedding, tagged and scored by a mutable "memory strength" that
biases retrieval. Every mutation other than creation appends an immutable
[Revision] row in the same transaction, never overwriting history.
*/
package insight

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// # Actors

const (
	// ActorPrivileged mutates immediately, bypassing the Consent/Proposal
	// state machine.
	ActorPrivileged = "I/O"
	// ActorNonPrivileged must route destructive mutations through a
	// pending [proposal.Proposal] for bilateral consent.
	ActorNonPrivileged = "ethr"
)

// # Feedback Types

const (
	FeedbackHelpful     = "helpful"
	FeedbackNotRelevant = "not_relevant"
	FeedbackNotNow      = "not_now"
)

// # Revision Actions

const (
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Insight is a curated memory: content plus its embedding, source
// provenance, tags, and a mutable memory-strength score.
type Insight struct {
	ID             int64
	ProjectID      string
	Content        string
	Embedding      pgvector.Vector
	SourceIDs      []int64
	Metadata       map[string]any
	Tags           []string
	MemoryStrength float64
	IsDeleted      bool
	DeletedAt      *time.Time
	DeletedBy      *string
	DeletedReason  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Revision is an immutable append-only history entry generated atomically
// with a mutation. Uniquely addressed by (InsightID, VersionID).
type Revision struct {
	InsightID         int64
	VersionID         int
	Action            string
	Actor             string
	OldContent        *string
	OldMemoryStrength *float64
	NewContent        *string
	NewMemoryStrength *float64
	Reason            string
	CreatedAt         time.Time
}

// Feedback is a single append-only Insight-Effectiveness Feedback event.
type Feedback struct {
	ID         int64
	InsightID  int64
	Type       string
	Context    *string
	CreatedAt  time.Time
}
