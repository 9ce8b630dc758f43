// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the API router, to be mounted at /api. authLimit wraps
// the register and login routes.
func (h *Handler) Routes(authLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		if authLimit != nil {
			r.Use(authLimit)
		}
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Post("/", h.CreateEvent)
		r.Delete("/{id}", h.DeleteEvent)
	})

	return r
}
