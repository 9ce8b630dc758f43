// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body["password"] != "p1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Incorrect email or password","code":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"Login successful","user":{"id":1,"name":"Ana","email":"ana@x.com"}}`))
	})
	mux.HandleFunc("GET /api/events", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"seed000001","title":"Pelatihan Dasar Organisasi","date":"2025-10-25",` +
			`"location":"Gedung D","description":"D","organizer":"IMILKOM","image":"Pelatihan","image_public_id":null}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCmd(t *testing.T, origin, session string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-api", origin, "-session", session}, args...)
	code := execute(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestEventsRequireLogin(t *testing.T) {
	srv := fakeAPI(t)
	session := filepath.Join(t.TempDir(), "session.json")

	code, out, errOut := runCmd(t, srv.URL, session, "events")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Please log in first")
	assert.Contains(t, errOut, "retry")
}

func TestLoginThenListEvents(t *testing.T) {
	srv := fakeAPI(t)
	session := filepath.Join(t.TempDir(), "session.json")

	code, out, _ := runCmd(t, srv.URL, session, "login", "-email", "ana@x.com", "-password", "p1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Welcome, Ana.")

	code, out, _ = runCmd(t, srv.URL, session, "events")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Pelatihan Dasar Organisasi")

	code, out, _ = runCmd(t, srv.URL, session, "event", "seed000001")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "assets/Pelatihan.png")

	code, _, _ = runCmd(t, srv.URL, session, "logout")
	require.Equal(t, 0, code)

	code, _, _ = runCmd(t, srv.URL, session, "events")
	assert.Equal(t, 1, code)
}

func TestLoginWrongPassword(t *testing.T) {
	srv := fakeAPI(t)
	session := filepath.Join(t.TempDir(), "session.json")

	code, _, errOut := runCmd(t, srv.URL, session, "login", "-email", "ana@x.com", "-password", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Incorrect email or password")

	code, _, _ = runCmd(t, srv.URL, session, "events")
	assert.Equal(t, 1, code)
}

func TestUnknownCommand(t *testing.T) {
	srv := fakeAPI(t)
	code, out, _ := runCmd(t, srv.URL, filepath.Join(t.TempDir(), "s.json"), "settings")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Page not found")
}

func TestInvalidOrigin(t *testing.T) {
	code, _, errOut := runCmd(t, "not a url", filepath.Join(t.TempDir(), "s.json"), "events")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Something went wrong")
}

func TestNoCommandPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Usage: kampusctl")
}
