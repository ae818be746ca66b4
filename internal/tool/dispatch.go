// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tool

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	requestutil "github.com/cogmem/memoryd/internal/platform/request"
	"github.com/cogmem/memoryd/internal/platform/respond"
	"github.com/cogmem/memoryd/internal/platform/validate"
	"github.com/cogmem/memoryd/pkg/uuid"
)

// HandlerFunc executes one named operation against its raw params,
// already scoped to the caller's current project.
type HandlerFunc func(ctx context.Context, currentProject string, params json.RawMessage) (any, error)

// Handler is the tool-protocol transport: a registry of named
// operations dispatched from a single HTTP endpoint.
type Handler struct {
	registry map[string]HandlerFunc
	reads    map[string]bool
	logger   *slog.Logger
}

// NewHandler constructs a [Handler] with every domain operation wired
// in, per the actor-gating rules documented on each handler function.
func NewHandler(deps Dependencies, logger *slog.Logger) *Handler {
	h := &Handler{registry: make(map[string]HandlerFunc), reads: make(map[string]bool), logger: logger}
	h.register(deps)
	return h
}

// add registers a write (mutating) method: it requires an explicit
// current project and fails the precondition when one isn't set.
func (h *Handler) add(method string, fn HandlerFunc) {
	h.registry[method] = fn
}

// addRead registers a read-only method: an absent current project is
// tolerated and passed through as "", which RLS resolves to an empty
// result set rather than a precondition failure.
func (h *Handler) addRead(method string, fn HandlerFunc) {
	h.registry[method] = fn
	h.reads[method] = true
}

/*
ServeHTTP decodes one [Envelope], dispatches it to the registered
handler for its method, and writes back a [Response]. Unlike a REST
endpoint, the HTTP status is always 200 — every outcome, success or
error, is carried in the body per JSON-RPC convention; a caller reads
Response.Error to distinguish the two.
*/
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var env Envelope
	if err := requestutil.DecodeJSON(r, &env); err != nil {
		writeError(w, nil, err)
		return
	}
	if env.ID == nil {
		env.ID = uuid.New()
	}

	fn, ok := h.registry[env.Method]
	if !ok {
		writeError(w, env.ID, apperr.NotFound("Method "+env.Method))
		return
	}

	var currentProject string
	if h.reads[env.Method] {
		currentProject = requestutil.CurrentProject(r)
	} else {
		project, err := requestutil.RequiredCurrentProject(r)
		if err != nil {
			writeError(w, env.ID, err)
			return
		}
		currentProject = project
	}

	result, err := fn(r.Context(), currentProject, env.Params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "tool_call_failed", slog.String("method", env.Method), slog.Any("error", err))
		writeError(w, env.ID, err)
		return
	}

	respond.JSON(w, http.StatusOK, Response{Jsonrpc: "2.0", Result: result, ID: env.ID})
}

func writeError(w http.ResponseWriter, id any, err error) {
	ae := apperr.As(err)
	if ae == nil {
		ae = apperr.Internal(err)
	}

	toolErr := &Error{Code: ae.HTTPStatus, Message: ae.Message}
	if len(ae.Details) == 1 {
		toolErr.Field = ae.Details[0].Field
	}

	respond.JSON(w, http.StatusOK, Response{Jsonrpc: "2.0", Error: toolErr, ID: id})
}

// decodeParams decodes raw into target, wrapping a malformed body as
// the same 400 a missing required field would produce.
func decodeParams(raw json.RawMessage, target any) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}
