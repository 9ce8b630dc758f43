// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package client is the bulletin's client application: an API client, the
// persisted login state, the view guard, image resolution and the event board.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/kampus-go/internal/model"
)

// DefaultOrigin is the API origin used when none is configured.
const DefaultOrigin = "http://localhost:5000"

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	Code    string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the bulletin API.
type Client struct {
	// origin is scheme and host of the API server, without a trailing slash.
	origin string

	hc *http.Client
}

// New returns a Client for the API at origin. A nil hc gets a client with a
// request timeout.
func New(origin string, hc *http.Client) (*Client, error) {
	if origin == "" {
		origin = DefaultOrigin
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api origin %q", origin)
	}
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		origin: strings.TrimRight(origin, "/"),
		hc:     hc,
	}, nil
}

// Origin returns the API origin.
func (c *Client) Origin() string {
	return c.origin
}

type userResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields"`
}

// Register creates an account and returns the public user.
func (c *Client) Register(ctx context.Context, name, email, password string) (model.PublicUser, error) {
	var out userResponse
	err := c.postJSON(ctx, "/api/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	return out.User, err
}

// Login checks the credentials and returns the matching user.
func (c *Client) Login(ctx context.Context, email, password string) (model.PublicUser, error) {
	var out userResponse
	err := c.postJSON(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out.User, err
}

// ListEvents returns every event in date order.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+"/api/events", nil)
	if err != nil {
		return nil, err
	}
	var events []model.Event
	if err := c.do(req, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// NewEvent is the form submitted when creating an event.
type NewEvent struct {
	Title       string
	Date        string
	Location    string
	Description string
	Organizer   string

	// Image is optional. ImageName is sent as the part's file name.
	Image     io.Reader
	ImageName string
}

// CreateEvent posts ev as multipart form data and returns the stored event.
func (c *Client) CreateEvent(ctx context.Context, ev NewEvent) (model.Event, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := [][2]string{
		{"title", ev.Title},
		{"date", ev.Date},
		{"location", ev.Location},
		{"description", ev.Description},
		{"organizer", ev.Organizer},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return model.Event{}, fmt.Errorf("writing field %s: %w", f[0], err)
		}
	}

	if ev.Image != nil {
		name := ev.ImageName
		if name == "" {
			name = "image"
		}
		part, err := mw.CreateFormFile("imageFile", name)
		if err != nil {
			return model.Event{}, fmt.Errorf("creating image part: %w", err)
		}
		if _, err := io.Copy(part, ev.Image); err != nil {
			return model.Event{}, fmt.Errorf("copying image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return model.Event{}, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.origin+"/api/events", &body)
	if err != nil {
		return model.Event{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out model.Event
	err = c.do(req, &out)
	return out, err
}

// DeleteEvent removes the event with id and returns the server's confirmation.
func (c *Client) DeleteEvent(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.origin+"/api/events/"+url.PathEscape(id), nil)
	if err != nil {
		return "", err
	}
	var out messageResponse
	err = c.do(req, &out)
	return out.Message, err
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.origin+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do sends req and decodes a 2xx body into out. Other statuses become an
// *APIError carrying the server's message when one was sent.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body errorResponse
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body) == nil {
			apiErr.Message = body.Message
			apiErr.Code = body.Code
			apiErr.Fields = body.Fields
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
