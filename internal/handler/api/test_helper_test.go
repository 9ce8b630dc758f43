// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/olegiv/kampus-go/internal/cache"
	"github.com/olegiv/kampus-go/internal/imagestore"
	"github.com/olegiv/kampus-go/internal/service"
	"github.com/olegiv/kampus-go/internal/store"
	"github.com/olegiv/kampus-go/internal/testutil"
)

type testServer struct {
	router  chi.Router
	db      *sqlx.DB
	uploads string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	uploads := t.TempDir()
	images, err := imagestore.NewLocal(uploads, imagestore.DefaultFolder)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	mem := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = mem.Close() })

	logger := testutil.TestLogger()
	q := store.New(db)
	h := NewHandler(
		service.NewUserService(q, logger),
		service.NewEventService(q, images, mem, time.Minute, logger),
		db, logger, "test",
	)

	r := chi.NewRouter()
	r.Mount("/api", h.Routes(nil))
	return &testServer{router: r, db: db, uploads: uploads}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *testServer) countEvents(t *testing.T) int {
	t.Helper()
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM events`); err != nil {
		t.Fatalf("counting events: %v", err)
	}
	return n
}

// multipartRequest builds a POST /api/events request. image may be nil.
func multipartRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile(imageField, "poster.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(image); err != nil {
			t.Fatalf("writing image: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/events", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func eventFields() map[string]string {
	return map[string]string{
		"title":       "T",
		"date":        "2025-01-01",
		"location":    "L",
		"description": "D",
		"organizer":   "O",
	}
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		img.Set(x, x%24, color.RGBA{B: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(strings.NewReader(rr.Body.String())).Decode(&v); err != nil {
		t.Fatalf("decoding %q: %v", rr.Body.String(), err)
	}
	return v
}
