// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package proposal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cogmem/memoryd/internal/insight"
	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/postgres"
	"github.com/cogmem/memoryd/internal/platform/validate"
)

// settleMarkerTTL bounds how long a settlement idempotency marker is held.
// It only needs to outlive one request's retry window; the database's
// status-guarded UPDATE is the actual correctness guarantee.
const settleMarkerTTL = 30 * time.Second

// Service implements the Consent/Proposal bilateral-approval state
// machine. It depends on [insight.Repository] directly, not
// [insight.Service], so an approved mutation executes in the same
// transaction as the proposal's status change.
type Service struct {
	pool     *pgxpool.Pool
	repo     Repository
	insights insight.Repository
	redis    *redis.Client
	logger   *slog.Logger
}

// NewService constructs a [Service].
func NewService(pool *pgxpool.Pool, repo Repository, insights insight.Repository, redisClient *redis.Client, logger *slog.Logger) *Service {
	return &Service{pool: pool, repo: repo, insights: insights, redis: redisClient, logger: logger}
}

// Request is raised by a non-privileged actor instead of mutating
// directly. It records a pending [Proposal] snapshotting the requester's
// view of the target.
func (s *Service) Request(ctx context.Context, currentProject string, actor string, action Action, reasoning string) (*Proposal, error) {
	v := &validate.Validator{}
	v.OneOf("actor", actor, insight.ActorNonPrivileged)
	v.Required("reasoning", reasoning)
	v.OneOf("action", action.Kind, ActionDeleteInsight)
	if err := v.Err(); err != nil {
		return nil, err
	}

	p := &Proposal{
		ProjectID:      currentProject,
		ProposedAction: action,
		Reasoning:      reasoning,
		OriginalState: map[string]any{
			"insight_id": action.InsightID,
			"actor":      actor,
		},
		Status: StatusPending,
	}

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	existing, err := s.insights.FindByID(ctx, tx, action.InsightID)
	if err != nil {
		return nil, err
	}
	p.OriginalState["content"] = existing.Content
	p.OriginalState["memory_strength"] = existing.MemoryStrength

	if err := s.repo.Create(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.InfoContext(ctx, "proposal_created", slog.Int64("proposal_id", p.ID), slog.String("actor", actor))
	return p, nil
}

// Approve settles a pending proposal as approved and, on the first
// successful settlement, executes its underlying mutation in the same
// transaction. A retried or racing approval of an already-settled
// proposal is a no-op that returns the proposal's current state.
func (s *Service) Approve(ctx context.Context, currentProject string, proposalID int64, reviewer, reviewNotes string) (*Proposal, error) {
	return s.settle(ctx, currentProject, proposalID, StatusApproved, reviewer, reviewNotes, true)
}

// Reject settles a pending proposal as rejected. No mutation executes.
func (s *Service) Reject(ctx context.Context, currentProject string, proposalID int64, reviewer, reviewNotes string) (*Proposal, error) {
	return s.settle(ctx, currentProject, proposalID, StatusRejected, reviewer, reviewNotes, false)
}

func (s *Service) settle(ctx context.Context, currentProject string, proposalID int64, status, reviewer, reviewNotes string, execute bool) (*Proposal, error) {
	v := &validate.Validator{}
	v.OneOf("reviewer", reviewer, insight.ActorPrivileged)
	if err := v.Err(); err != nil {
		return nil, err
	}

	marker := fmt.Sprintf("proposal:settle:%d", proposalID)
	if s.redis != nil {
		acquired, err := s.redis.SetNX(ctx, marker, reviewer, settleMarkerTTL).Result()
		if err == nil && !acquired {
			s.logger.InfoContext(ctx, "proposal_settle_in_flight", slog.Int64("proposal_id", proposalID))
		}
	}

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	settled, err := s.repo.SettlePending(ctx, tx, proposalID, status, reviewer, reviewNotes)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, tx, proposalID)
	if err != nil {
		return nil, err
	}

	if settled && execute {
		if err := s.execute(ctx, tx, p, reviewer, reviewNotes); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.InfoContext(ctx, "proposal_settled",
		slog.Int64("proposal_id", proposalID), slog.String("status", status), slog.Bool("executed", settled && execute))
	return p, nil
}

// execute performs the mutation named by a just-approved proposal's
// tagged action, appending its revision row in the same transaction as
// the proposal's status change.
func (s *Service) execute(ctx context.Context, tx postgres.Querier, p *Proposal, reviewer, reviewNotes string) error {
	switch p.ProposedAction.Kind {
	case ActionDeleteInsight:
		return s.executeDeleteInsight(ctx, tx, p.ProposedAction.InsightID, reviewer, reviewNotes)
	default:
		return apperr.Internal(fmt.Errorf("proposal: unknown action kind %q", p.ProposedAction.Kind))
	}
}

func (s *Service) executeDeleteInsight(ctx context.Context, tx postgres.Querier, insightID int64, reviewer, reason string) error {
	existing, err := s.insights.FindByID(ctx, tx, insightID)
	if err != nil {
		return err
	}
	if existing.IsDeleted {
		return nil
	}

	if err := s.insights.SoftDelete(ctx, tx, insightID, reviewer, reason); err != nil {
		return err
	}

	return s.insights.InsertRevision(ctx, tx, insight.Revision{
		InsightID:         insightID,
		Action:            insight.ActionDelete,
		Actor:             reviewer,
		OldContent:        &existing.Content,
		OldMemoryStrength: &existing.MemoryStrength,
		Reason:            reason,
	})
}
