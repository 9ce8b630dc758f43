// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginScenario(t *testing.T) {
	s := newTestServer(t)
	ana := map[string]string{"name": "Ana", "email": "ana@x.com", "password": "p1"}

	rr := s.postJSON(t, "/api/register", ana)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[UserResponse](t, rr)
	assert.NotEmpty(t, created.Message)
	assert.Equal(t, "Ana", created.User.Name)
	assert.Equal(t, "ana@x.com", created.User.Email)
	assert.NotContains(t, rr.Body.String(), "p1")

	rr = s.postJSON(t, "/api/register", map[string]string{"name": "Other", "email": "ana@x.com", "password": "zz"})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, CodeConflict, decode[ErrorResponse](t, rr).Code)

	rr = s.postJSON(t, "/api/login", map[string]string{"email": "ana@x.com", "password": "p1"})
	require.Equal(t, http.StatusOK, rr.Code)
	loggedIn := decode[UserResponse](t, rr)
	assert.Equal(t, created.User, loggedIn.User)

	rr = s.postJSON(t, "/api/login", map[string]string{"email": "ana@x.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, CodeUnauthorized, decode[ErrorResponse](t, rr).Code)
}

func TestRegisterMissingField(t *testing.T) {
	s := newTestServer(t)

	rr := s.postJSON(t, "/api/register", map[string]string{"name": "Ana", "email": "ana@x.com"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[ErrorResponse](t, rr)
	assert.Equal(t, CodeValidation, body.Code)
	assert.Contains(t, body.Fields, "password")
}

func TestRegisterFormEncoded(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{"name": {"Budi"}, "email": {"budi@x.com"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := s.do(req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "Budi", decode[UserResponse](t, rr).User.Name)
}

func TestRegisterMalformedJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rr := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	s := newTestServer(t)

	rr := s.postJSON(t, "/api/login", map[string]string{"email": "nobody@x.com", "password": "p"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
