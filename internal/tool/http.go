// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tool

import (
	"github.com/go-chi/chi/v5"

	"github.com/cogmem/memoryd/internal/platform/middleware"
)

/*
RegisterRoutes mounts the tool-protocol endpoint under api.

	POST /api/v1/tools

	Request:  Envelope{method, params, id}
	Response: Response{result | error, id}

Every method requires an authenticated caller. Write methods also require
an X-Current-Project header; read-only methods run with an empty project
scope when it is absent. The project scope is what every downstream
service call runs against via row-level security.
*/
func (h *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/tools", h.ServeHTTP)
	})
}
