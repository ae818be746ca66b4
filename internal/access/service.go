// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/constants"
)

// Service implements the Access-Control Core's session-level bookkeeping:
// rollout phase resolution, read-scope computation, and emergency-bypass
// assumption. The row-level predicates themselves run inside Postgres as
// RLS policies driven by the GUCs this service sets; shadow-mode logging is
// a side effect of the app_project_is_allowed predicate function itself
// and is only read back here via ListViolations/TrimViolationLog.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs an Access-Control [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Mode returns the rollout phase for a project. A missing RLSStatus row is
// treated as the conservative default: [PhaseEnforcing].
func (s *Service) Mode(ctx context.Context, projectID string) Phase {
	status, err := s.repo.GetRLSStatus(ctx, projectID)
	if err != nil || status == nil || !status.Enabled {
		return PhaseEnforcing
	}
	return status.Phase
}

// AllowedProjects computes the read scope for currentProject: itself for
// isolated, itself plus read grants for shared, or nil (meaning "all") for
// super.
func (s *Service) AllowedProjects(ctx context.Context, currentProject string) (all bool, allowed []string, err error) {
	project, err := s.repo.GetProject(ctx, currentProject)
	if err != nil {
		return false, nil, err
	}

	switch project.AccessLevel {
	case LevelSuper:
		return true, nil, nil
	case LevelShared:
		targets, err := s.repo.ListReadGrantTargets(ctx, currentProject)
		if err != nil {
			return false, nil, err
		}
		return false, append(targets, currentProject), nil
	default: // LevelIsolated and any unrecognised value, conservatively
		return false, []string{currentProject}, nil
	}
}

// RequireCurrentProject enforces the precondition that a caller has a
// session-level current project set before any write. Read paths are
// expected to tolerate an empty value (empty result set under RLS).
func RequireCurrentProject(currentProject string) error {
	if currentProject == "" {
		return apperr.Precondition("no current project set for this session")
	}
	return nil
}

// defaultViolationListLimit bounds an unbounded ListViolations request.
const defaultViolationListLimit = 100

// ListViolations returns recent shadow-mode violation rows, scoped to
// projectIDs when given. limit is clamped to [1, defaultViolationListLimit]
// when zero or out of range.
func (s *Service) ListViolations(ctx context.Context, projectIDs []string, limit int) ([]ViolationLog, error) {
	if limit <= 0 || limit > defaultViolationListLimit {
		limit = defaultViolationListLimit
	}
	return s.repo.ListViolations(ctx, projectIDs, limit)
}

// TrimViolationLog caps a project's violation log at keep rows, oldest
// first, resolving the shadow-log retention question via a bounded trim
// rather than unbounded accumulation.
func (s *Service) TrimViolationLog(ctx context.Context, projectID string, keep int) error {
	return s.repo.TrimViolationLog(ctx, projectID, keep)
}

// AssumeEmergencyBypass assumes the NOLOGIN BYPASSRLS role on tx, disabling
// every Access-Control predicate for the lifetime of that transaction, and
// writes a [BypassAudit] row before and after use. Callers must gate this
// behind an operator capability check (never exposed through the tool
// protocol) before invoking it.
//
// The returned release function must be called before tx is committed or
// rolled back; it resets the role and stamps the audit row's release time.
func (s *Service) AssumeEmergencyBypass(ctx context.Context, tx pgx.Tx, actor, reason string) (release func(context.Context) error, err error) {
	auditID, err := s.repo.RecordBypassAssumed(ctx, actor, reason)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, "SET ROLE "+constants.EmergencyBypassRole); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.WarnContext(ctx, "emergency_bypass_assumed",
		slog.String("actor", actor),
		slog.String("reason", reason),
		slog.Int64("audit_id", auditID),
	)

	return func(releaseCtx context.Context) error {
		if _, err := tx.Exec(releaseCtx, "RESET ROLE"); err != nil {
			return apperr.Internal(err)
		}
		if err := s.repo.RecordBypassReleased(releaseCtx, auditID); err != nil {
			s.logger.ErrorContext(releaseCtx, "bypass_release_audit_failed", slog.Any("error", err))
		}
		s.logger.WarnContext(releaseCtx, "emergency_bypass_released", slog.Int64("audit_id", auditID))
		return nil
	}, nil
}
