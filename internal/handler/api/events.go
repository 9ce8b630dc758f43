// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/kampus-go/internal/imagestore"
	"github.com/olegiv/kampus-go/internal/model"
)

const (
	// imageField is the multipart field carrying the optional image.
	imageField = "imageFile"

	// maxCreateBody leaves room for the text fields next to a full-size image.
	maxCreateBody = imagestore.MaxUploadBytes + 1<<20

	multipartMemory = 8 << 20
)

// ListEvents handles GET /api/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to load events")
		return
	}
	WriteJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/events. The body is multipart form data
// with the text fields and an optional image.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeValidationError(w, model.NewValidationError(imageField, imagestore.ErrTooLarge.Error()))
			return
		}
		WriteError(w, http.StatusBadRequest, CodeValidation, "Invalid form data")
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	fields := model.EventFields{
		Title:       r.FormValue("title"),
		Date:        r.FormValue("date"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
		Organizer:   r.FormValue("organizer"),
	}

	var image io.Reader
	if r.MultipartForm != nil {
		file, _, err := r.FormFile(imageField)
		switch {
		case err == nil:
			defer func() { _ = file.Close() }()
			image = file
		case !errors.Is(err, http.ErrMissingFile):
			WriteError(w, http.StatusBadRequest, CodeValidation, "Invalid image upload")
			return
		}
	}

	ev, err := h.events.Create(r.Context(), fields, image)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create event")
		return
	}

	WriteJSON(w, http.StatusCreated, ev)
}

// DeleteEvent handles DELETE /api/events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.events.Delete(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			WriteError(w, http.StatusNotFound, CodeNotFound, fmt.Sprintf("Event with ID %s not found", id))
			return
		}
		h.writeServiceError(w, r, err, "Failed to delete event")
		return
	}

	WriteJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("Event with ID %s deleted", id)})
}
