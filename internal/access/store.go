// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import "context"

// Repository defines the data access contract for the Access-Control Core's
// bookkeeping tables. The row-level predicates themselves are native
// Postgres RLS policies and are not expressed here.
type Repository interface {

	// GetProject returns a project's access level and metadata.
	//
	// Returns apperr-wrapped ErrNotFound if the project is unknown.
	GetProject(ctx context.Context, projectID string) (*Project, error)

	// ListReadGrantTargets returns the target project ids that readerID may
	// additionally read, for a "shared"-level project.
	ListReadGrantTargets(ctx context.Context, readerProjectID string) ([]string, error)

	// GetRLSStatus returns a project's rollout phase. A project with no row
	// is treated by the caller as the conservative default (enforcing).
	GetRLSStatus(ctx context.Context, projectID string) (*RLSStatus, error)

	// ListViolations returns the most recent violation-log rows across the
	// given project ids (all projects if empty), newest first, bounded by
	// limit.
	ListViolations(ctx context.Context, projectIDs []string, limit int) ([]ViolationLog, error)

	// TrimViolationLog deletes all but the most recent keep rows for a
	// project, oldest first.
	TrimViolationLog(ctx context.Context, projectID string, keep int) error

	// RecordBypassAssumed appends a bypass-audit row before the role is
	// assumed and returns its id for the matching release record.
	RecordBypassAssumed(ctx context.Context, actor, reason string) (auditID int64, err error)

	// RecordBypassReleased stamps the release time on a bypass-audit row.
	RecordBypassReleased(ctx context.Context, auditID int64) error
}
