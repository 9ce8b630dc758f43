// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers for users and events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/olegiv/kampus-go/internal/model"
	"github.com/olegiv/kampus-go/internal/service"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeValidation   = "validation"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeInternal     = "internal"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	users   *service.UserService
	events  *service.EventService
	db      Pinger
	logger  *slog.Logger
	version string
}

// NewHandler creates a new API handler.
func NewHandler(users *service.UserService, events *service.EventService, db Pinger, logger *slog.Logger, version string) *Handler {
	return &Handler{
		users:   users,
		events:  events,
		db:      db,
		logger:  logger,
		version: version,
	}
}

// MessageResponse is returned by operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is returned by register and login.
type UserResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message, Code: code})
}

// writeValidationError writes a 400 listing each failing field.
func writeValidationError(w http.ResponseWriter, verr *model.ValidationError) {
	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+verr.Fields[name])
	}

	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Message: strings.Join(parts, "; "),
		Code:    CodeValidation,
		Fields:  verr.Fields,
	})
}

// writeServiceError maps a service error to its HTTP status. Unexpected
// errors are logged and reported with internalMsg only.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, model.ErrEmailTaken):
		WriteError(w, http.StatusConflict, CodeConflict, "Email is already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "Incorrect email or password")
	case errors.Is(err, model.ErrNotFound):
		WriteError(w, http.StatusNotFound, CodeNotFound, "Not found")
	default:
		h.logger.ErrorContext(r.Context(), internalMsg, "error", err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, internalMsg)
	}
}
