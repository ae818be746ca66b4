// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package proposal implements the Consent/Proposal bilateral-approval state
machine that gates destructive mutations initiated by a non-privileged
actor ("ethr"). A pending Proposal snapshots the original state of its
target; approval by a privileged reviewer ("I/O") executes the underlying
mutation in the same transaction as the status transition, at most once.
*/
package proposal

import "time"

// # Status

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// # Proposed Actions
//
// DELETE_INSIGHT is the only action kind the Curation Service routes
// through consent today; the Kind/InsightID shape is deliberately
// tagged-variant-shaped so a future action (e.g. UPDATE_INSIGHT) adds a
// case rather than a new table.
const (
	ActionDeleteInsight = "DELETE_INSIGHT"
)

// Action is the tagged variant describing what a Proposal, once approved,
// will execute.
type Action struct {
	Kind      string `json:"action"`
	InsightID int64  `json:"insight_id"`
}

// Proposal is a pending, approved, or rejected request to perform a
// gated mutation. OriginalState snapshots what the requester believed
// true at proposal time, for reviewer context; it is never used to drive
// the mutation itself, which always re-reads current state at settlement.
type Proposal struct {
	ID             int64
	ProjectID      string
	ProposedAction Action
	Reasoning      string
	OriginalState  map[string]any
	Status         string
	Reviewer       *string
	ReviewNotes    *string
	CreatedAt      time.Time
	ReviewedAt     *time.Time
}
