// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/olegiv/kampus-go/internal/service"
)

const maxJSONBody = 64 << 10

// decodeBody fills dst from a JSON body, or from form values when the
// request is form encoded.
func decodeBody(w http.ResponseWriter, r *http.Request, dst *service.RegisterInput) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxJSONBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		dst.Name = r.FormValue("name")
		dst.Email = r.FormValue("email")
		dst.Password = r.FormValue("password")
		return nil
	default:
		return json.NewDecoder(r.Body).Decode(dst)
	}
}

// Register handles POST /api/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeBody(w, r, &in); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "Invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err, "Registration failed")
		return
	}

	WriteJSON(w, http.StatusCreated, UserResponse{Message: "Registration successful", User: user})
}

// Login handles POST /api/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeBody(w, r, &in); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "Invalid request body")
		return
	}

	user, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.writeServiceError(w, r, err, "Login failed")
		return
	}

	WriteJSON(w, http.StatusOK, UserResponse{Message: "Login successful", User: user})
}
