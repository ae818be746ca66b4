// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access implements the Access-Control Core: it decides which projects
a caller may read from and which project a caller may write to, and it
manages the three-phase rollout (pending/shadow/enforcing) and the
emergency-bypass capability that disables enforcement entirely.

# Architecture

The actual row-level predicates live in Postgres as native Row-Level
Security policies (see migrations/). This package owns the session-scoped
inputs those policies read (`app.current_project`, set via
[postgres.BeginScoped]), the bookkeeping tables that control rollout phase
and cross-project read grants, and the audit trail for emergency-bypass
assumption.
*/
package access

import (
	"time"

	"github.com/cogmem/memoryd/internal/platform/constants"
)

// # Access Levels

// Level is the access tier assigned to a project, controlling how far its
// read scope extends beyond its own rows.
type Level string

const (
	// LevelSuper grants read access to every project.
	LevelSuper Level = constants.AccessLevelSuper
	// LevelShared grants read access to its own project plus explicit grants.
	LevelShared Level = constants.AccessLevelShared
	// LevelIsolated grants read access only to its own project. Default.
	LevelIsolated Level = constants.AccessLevelIsolated
)

// # Rollout Phase

// Phase is a project's current position in the three-phase RLS rollout.
type Phase string

const (
	// PhasePending is a no-op: legacy behaviour, no predicate evaluated.
	PhasePending Phase = constants.RLSPhasePending
	// PhaseShadow evaluates predicates but does not enforce them; would-be
	// violations are recorded to [ViolationLog].
	PhaseShadow Phase = constants.RLSPhaseShadow
	// PhaseEnforcing applies predicates as load-bearing.
	PhaseEnforcing Phase = constants.RLSPhaseEnforcing
)

// # Entities

// Project is a logical tenant and the unit of access-control isolation.
type Project struct {
	ProjectID    string
	Name         string
	AccessLevel  Level
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReadGrant is a one-directional cross-project read permission:
// ReaderProjectID may read TargetProjectID's rows in addition to its own. Self-grants are implicit and
// are never stored.
type ReadGrant struct {
	ReaderProjectID string
	TargetProjectID string
	CreatedAt       time.Time
}

// RLSStatus is a project's current rollout phase and enablement flag.
type RLSStatus struct {
	ProjectID string
	Phase     Phase
	Enabled   bool
	UpdatedAt time.Time
}

// ViolationLog is an append-only record of a would-be Access-Control
// violation observed while a project's phase is [PhaseShadow]. One row is
// written each time the predicate is evaluated and fails, so duplicates
// are possible. [Service.TrimViolationLog] trims a project's rows when
// called; nothing in the service schedules it, so rows accumulate until
// it is.
type ViolationLog struct {
	ID             int64
	ProjectID      string
	AttemptedTable string
	CurrentProject string
	ObservedAt     time.Time
}

// BypassAudit is an append-only log of every assumption of the
// emergency-bypass role, required because the bypass mechanism "must be
// logged."
type BypassAudit struct {
	ID         int64
	Actor      string
	Reason     string
	AssumedAt  time.Time
	ReleasedAt *time.Time
}
