// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package insight

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/constants"
	"github.com/cogmem/memoryd/internal/platform/postgres"
	"github.com/cogmem/memoryd/internal/platform/validate"
	"github.com/cogmem/memoryd/pkg/pointer"
	"github.com/cogmem/memoryd/pkg/slice"
	"github.com/cogmem/memoryd/pkg/slug"
)

const (
	FieldContent        = "content"
	FieldReason         = "reason"
	FieldActor          = "actor"
	FieldMemoryStrength = "new_memory_strength"
	FieldFeedbackType   = "feedback_type"
)

// Service implements the Curation Service: create, update, soft-delete and
// history retrieval for insights, plus the fast write-only IEF feedback
// submission path. Every mutation that changes a stored insight appends a
// [Revision] row in the same transaction as the mutation itself.
//
// Service always executes its mutations immediately — it has no notion of
// the privileged/non-privileged actor gate. Routing a non-privileged
// actor's destructive request through the Consent/Proposal state machine
// instead of calling this service directly is the caller's responsibility
// (see package proposal).
type Service struct {
	pool   *pgxpool.Pool
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Curation [Service].
func NewService(pool *pgxpool.Pool, repo Repository, logger *slog.Logger) *Service {
	return &Service{pool: pool, repo: repo, logger: logger}
}

// CreateInsight persists a new insight. Embeddings are produced by the
// caller (the Embedding Gateway) before this call; this service only
// validates and stores.
func (s *Service) CreateInsight(ctx context.Context, currentProject string, i *Insight) error {
	v := &validate.Validator{}
	v.Required(FieldContent, i.Content)
	v.Range("memory_strength", int(i.MemoryStrength*100), 0, 100)
	if err := v.Err(); err != nil {
		return err
	}

	if i.MemoryStrength == 0 {
		i.MemoryStrength = constants.DefaultMemoryStrength
	}
	i.ProjectID = currentProject
	i.Tags = slice.Map(i.Tags, slug.Canonicalize)

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.Create(ctx, tx, i); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}

	s.logger.InfoContext(ctx, "insight_created", slog.Int64("insight_id", i.ID))
	return nil
}

// UpdateInsight applies a content and/or memory-strength change, appending
// a revision row atomically. 404 if the target is missing or already
// soft-deleted.
func (s *Service) UpdateInsight(ctx context.Context, currentProject string, id int64, newContent *string, newMemoryStrength *float64, actor, reason string) error {
	v := &validate.Validator{}
	v.Required(FieldReason, reason)
	v.OneOf(FieldActor, actor, ActorPrivileged, ActorNonPrivileged)
	if newMemoryStrength != nil {
		v.Range(FieldMemoryStrength, int(*newMemoryStrength*100), 0, 100)
	}
	if err := v.Err(); err != nil {
		return err
	}

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	existing, err := s.repo.FindByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if existing.IsDeleted {
		return apperr.NotFound("Insight")
	}

	rev := Revision{
		InsightID:         id,
		Action:            ActionUpdate,
		Actor:             actor,
		OldContent:        pointer.To(existing.Content),
		OldMemoryStrength: pointer.To(existing.MemoryStrength),
		Reason:            reason,
	}

	if newContent != nil {
		existing.Content = *newContent
	}
	if newMemoryStrength != nil {
		existing.MemoryStrength = clamp01(*newMemoryStrength)
	}
	rev.NewContent = newContent
	rev.NewMemoryStrength = newMemoryStrength

	if err := s.repo.Update(ctx, tx, existing); err != nil {
		return err
	}
	if err := s.repo.InsertRevision(ctx, tx, rev); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}

	s.logger.InfoContext(ctx, "insight_updated", slog.Int64("insight_id", id), slog.String("actor", actor))
	return nil
}

// DeleteInsight soft-deletes an insight and appends a DELETE revision row
// atomically. 404 if missing, 409 if already deleted (double delete).
func (s *Service) DeleteInsight(ctx context.Context, currentProject string, id int64, actor, reason string) error {
	v := &validate.Validator{}
	v.Required(FieldReason, reason)
	v.OneOf(FieldActor, actor, ActorPrivileged, ActorNonPrivileged)
	if err := v.Err(); err != nil {
		return err
	}

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	existing, err := s.repo.FindByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if existing.IsDeleted {
		return apperr.Conflict("Insight already deleted")
	}

	rev := Revision{
		InsightID:         id,
		Action:            ActionDelete,
		Actor:             actor,
		OldContent:        pointer.To(existing.Content),
		OldMemoryStrength: pointer.To(existing.MemoryStrength),
		Reason:            reason,
	}

	if err := s.repo.SoftDelete(ctx, tx, id, actor, reason); err != nil {
		return err
	}
	if err := s.repo.InsertRevision(ctx, tx, rev); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}

	s.logger.InfoContext(ctx, "insight_deleted", slog.Int64("insight_id", id), slog.String("actor", actor))
	return nil
}

// GetInsightHistory returns an insight's revisions ordered ascending by
// version_id.
func (s *Service) GetInsightHistory(ctx context.Context, currentProject string, id int64) ([]*Revision, error) {
	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	revisions, err := s.repo.ListRevisions(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	return revisions, nil
}

// SubmitFeedback records one IEF feedback event. It is a fast, write-only
// path: it confirms the target exists and is not soft-deleted, inserts one
// append-only row, and returns — it never recomputes any score. The
// recomputation happens lazily in the next query's IEF Re-scorer pass.
func (s *Service) SubmitFeedback(ctx context.Context, currentProject string, insightID int64, feedbackType string, feedbackContext *string) error {
	v := &validate.Validator{}
	v.OneOf(FieldFeedbackType, feedbackType, FeedbackHelpful, FeedbackNotRelevant, FeedbackNotNow)
	if err := v.Err(); err != nil {
		return err
	}

	tx, err := postgres.BeginScoped(ctx, s.pool, currentProject)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	existing, err := s.repo.FindByID(ctx, tx, insightID)
	if err != nil {
		return err
	}
	if existing.IsDeleted {
		return apperr.NotFound("Insight")
	}

	if err := s.repo.InsertFeedback(ctx, tx, Feedback{InsightID: insightID, Type: feedbackType, Context: feedbackContext}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// clamp01 restricts a float to the [0,1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
