// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware stacked in front of the
// API routes: CORS, rate limiting, timeouts, request logging and metrics.
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
)

// errorBody matches the API's error response shape.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message, Code: code})
}

// clientIP returns the host part of RemoteAddr. The router runs chi's
// RealIP first, so proxy headers are already applied.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
