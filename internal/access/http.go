// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/middleware"
	requestutil "github.com/cogmem/memoryd/internal/platform/request"
	"github.com/cogmem/memoryd/internal/platform/respond"
	"github.com/cogmem/memoryd/internal/platform/sec"
	"github.com/cogmem/memoryd/internal/stats"
	"github.com/cogmem/memoryd/pkg/pagination"
	"github.com/cogmem/memoryd/pkg/query"
)

// Handler exposes the thin operator-facing admin surface over the
// Access-Control Core: rollout-phase and read-scope inspection, and
// emergency-bypass assumption. It is deliberately separate from the
// tool-protocol dispatch — the bypass capability must never be reachable
// from an agent-facing call.
type Handler struct {
	service   *Service
	statsRepo stats.Repository
	pool      *pgxpool.Pool
	logger    *slog.Logger
}

// NewHandler constructs an admin [Handler].
func NewHandler(service *Service, statsRepo stats.Repository, pool *pgxpool.Pool, logger *slog.Logger) *Handler {
	return &Handler{service: service, statsRepo: statsRepo, pool: pool, logger: logger}
}

/*
RegisterRoutes mounts the admin surface under api, gated to
[sec.RoleViewer] (read-only inspection) or [sec.RoleOperator]
(emergency bypass) claims.

	GET  /api/v1/admin/projects/{projectID}/rls-status
	GET  /api/v1/admin/projects/{projectID}/read-scope
	GET  /api/v1/admin/violations
	POST /api/v1/admin/emergency-bypass
*/
func (h *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/admin", func(r chi.Router) {
		r.Group(func(viewer chi.Router) {
			viewer.Use(middleware.RequireRole(sec.RoleViewer))
			viewer.Get("/projects/{projectID}/rls-status", h.rlsStatus)
			viewer.Get("/projects/{projectID}/read-scope", h.readScope)
			viewer.Get("/violations", h.violations)
		})

		r.Group(func(operator chi.Router) {
			operator.Use(middleware.RequireRole(sec.RoleOperator))
			operator.Post("/emergency-bypass", h.emergencyBypass)
		})
	})
}

// rlsStatus handles GET /admin/projects/{projectID}/rls-status.
func (h *Handler) rlsStatus(w http.ResponseWriter, r *http.Request) {
	projectID := requestutil.Param(r, "projectID")
	phase := h.service.Mode(r.Context(), projectID)
	respond.OK(w, map[string]string{"project_id": projectID, "phase": string(phase)})
}

// readScope handles GET /admin/projects/{projectID}/read-scope.
func (h *Handler) readScope(w http.ResponseWriter, r *http.Request) {
	projectID := requestutil.Param(r, "projectID")

	all, allowed, err := h.service.AllowedProjects(r.Context(), projectID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, map[string]any{"project_id": projectID, "all_projects": all, "allowed": allowed})
}

// violations handles GET /admin/violations?project_id=a,b&limit=50 — a
// viewer-facing look at recent shadow-mode would-be violations, scoped to
// the comma-separated project_id list when given.
func (h *Handler) violations(w http.ResponseWriter, r *http.Request) {
	projectIDs := query.StringSlice(r.URL.Query().Get("project_id"))
	page := pagination.FromRequest(r)

	entries, err := h.service.ListViolations(r.Context(), projectIDs, page.Limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, map[string]any{"violations": entries})
}

type emergencyBypassRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

/*
emergencyBypass handles POST /admin/emergency-bypass.

It assumes the emergency-bypass role for the lifetime of one read-only
transaction, runs the Stats & Counts rollup unscoped by any project's
Row-Level Security predicate, and releases the role before returning —
for diagnosing a suspected RLS misconfiguration when a project's own
scoped queries look wrong. The transaction is always rolled back; this
endpoint never mutates.
*/
func (h *Handler) emergencyBypass(w http.ResponseWriter, r *http.Request) {
	var body emergencyBypassRequest
	if err := requestutil.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, err)
		return
	}
	if body.Actor == "" || body.Reason == "" {
		respond.Error(w, r, apperr.ValidationError("actor and reason are required"))
		return
	}

	ctx := r.Context()
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		respond.Error(w, r, apperr.Capacity(err))
		return
	}
	defer tx.Rollback(ctx)

	release, err := h.service.AssumeEmergencyBypass(ctx, tx, body.Actor, body.Reason)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	counts, rollupErr := h.statsRepo.Rollup(ctx, tx)

	if err := release(ctx); err != nil {
		h.logger.ErrorContext(ctx, "emergency_bypass_release_failed", slog.Any("error", err))
	}

	if rollupErr != nil {
		respond.Error(w, r, rollupErr)
		return
	}

	respond.OK(w, counts)
}
