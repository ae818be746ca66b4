// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tool

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogmem/memoryd/internal/platform/apperr"
	"github.com/cogmem/memoryd/internal/platform/constants"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHandler builds a [Handler] with a bare registry, bypassing
// [NewHandler]/register so individual tests can wire in stub write
// [HandlerFunc]s without constructing real domain services.
func newTestHandler(methods map[string]HandlerFunc) *Handler {
	h := &Handler{registry: make(map[string]HandlerFunc), reads: make(map[string]bool), logger: discardLogger()}
	for name, fn := range methods {
		h.add(name, fn)
	}
	return h
}

// newTestReadHandler is [newTestHandler] for a single read-only method.
func newTestReadHandler(method string, fn HandlerFunc) *Handler {
	h := &Handler{registry: make(map[string]HandlerFunc), reads: make(map[string]bool), logger: discardLogger()}
	h.addRead(method, fn)
	return h
}

func doRequest(t *testing.T, h *Handler, body string, currentProject string) Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/tools", strings.NewReader(body))
	if currentProject != "" {
		req.Header.Set(constants.HeaderXCurrentProject, currentProject)
	}
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "tool-protocol replies are always 200 regardless of outcome")

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

/*
TestServeHTTP_UnknownMethod verifies dispatch to an unregistered method
name returns a NOT_FOUND-shaped [Error] rather than a transport-level
404, per the JSON-RPC-style contract.
*/
func TestServeHTTP_UnknownMethod(t *testing.T) {
	h := newTestHandler(nil)

	resp := doRequest(t, h, `{"method":"no_such_method","params":{},"id":1}`, "proj-a")

	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "no_such_method")
	assert.Nil(t, resp.Result)
}

/*
TestServeHTTP_MissingCurrentProject verifies a request lacking
X-Current-Project is rejected before a write handler function runs,
even for a registered method.
*/
func TestServeHTTP_MissingCurrentProject(t *testing.T) {
	called := false
	h := newTestHandler(map[string]HandlerFunc{
		"echo": func(ctx context.Context, currentProject string, params json.RawMessage) (any, error) {
			called = true
			return nil, nil
		},
	})

	resp := doRequest(t, h, `{"method":"echo","params":{},"id":1}`, "")

	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusPreconditionFailed, resp.Error.Code)
	assert.False(t, called, "handler must not run without a resolved project scope")
}

/*
TestServeHTTP_ReadToleratesMissingCurrentProject verifies a read-only
method runs without X-Current-Project set, passing through an empty
current project rather than failing the precondition — the RLS
predicate resolves that to an empty result set.
*/
func TestServeHTTP_ReadToleratesMissingCurrentProject(t *testing.T) {
	var seenProject string
	seen := false
	h := newTestReadHandler("search", func(ctx context.Context, currentProject string, params json.RawMessage) (any, error) {
		seen = true
		seenProject = currentProject
		return map[string]any{"items": []any{}}, nil
	})

	resp := doRequest(t, h, `{"method":"search","params":{},"id":1}`, "")

	require.Nil(t, resp.Error)
	require.True(t, seen, "read handler must run even without a resolved project scope")
	assert.Empty(t, seenProject)
}

/*
TestServeHTTP_Success verifies a registered handler's result is carried
back on Response.Result with the request's id echoed, and that the
caller's resolved current project reaches the handler function.
*/
func TestServeHTTP_Success(t *testing.T) {
	var seenProject string
	h := newTestHandler(map[string]HandlerFunc{
		"echo": func(ctx context.Context, currentProject string, params json.RawMessage) (any, error) {
			seenProject = currentProject
			return map[string]any{"ok": true}, nil
		},
	})

	resp := doRequest(t, h, `{"method":"echo","params":{},"id":"req-1"}`, "proj-a")

	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "req-1", resp.ID)
	assert.Equal(t, "proj-a", seenProject)
}

/*
TestServeHTTP_AutoAssignsID verifies an envelope with no id still
receives a non-empty id on the reply, per [uuid.New]'s fallback in
ServeHTTP.
*/
func TestServeHTTP_AutoAssignsID(t *testing.T) {
	h := newTestHandler(map[string]HandlerFunc{
		"echo": func(ctx context.Context, currentProject string, params json.RawMessage) (any, error) {
			return "done", nil
		},
	})

	resp := doRequest(t, h, `{"method":"echo","params":{}}`, "proj-a")

	require.Nil(t, resp.Error)
	assert.NotEmpty(t, resp.ID)
}

/*
TestServeHTTP_HandlerError verifies a handler's returned error is
translated into the Error envelope, with single-field validation
details surfaced as Field.
*/
func TestServeHTTP_HandlerError(t *testing.T) {
	h := newTestHandler(map[string]HandlerFunc{
		"create_insight": func(ctx context.Context, currentProject string, params json.RawMessage) (any, error) {
			return nil, apperr.ValidationError("content is required", apperr.FieldError{Field: "content", Message: "required"})
		},
	})

	resp := doRequest(t, h, `{"method":"create_insight","params":{},"id":1}`, "proj-a")

	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusBadRequest, resp.Error.Code)
	assert.Equal(t, "content", resp.Error.Field)
	assert.Nil(t, resp.Result)
}

/*
TestServeHTTP_MalformedBody verifies an undecodable request body is
rejected before any routing is attempted.
*/
func TestServeHTTP_MalformedBody(t *testing.T) {
	h := newTestHandler(nil)

	resp := doRequest(t, h, `not json`, "proj-a")

	require.NotNil(t, resp.Error)
	assert.Equal(t, http.StatusBadRequest, resp.Error.Code)
}
