// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

// View names a screen of the client.
type View string

// Views of the client.
const (
	ViewEvents   View = "events"
	ViewEvent    View = "event"
	ViewLogin    View = "login"
	ViewRegister View = "register"
	ViewNotFound View = "not-found"
)

// ParseView maps a view name to a View. Unknown names map to ViewNotFound.
func ParseView(name string) View {
	switch v := View(name); v {
	case ViewEvents, ViewEvent, ViewLogin, ViewRegister:
		return v
	default:
		return ViewNotFound
	}
}

// Protected reports whether v needs a logged-in session.
func (v View) Protected() bool {
	return v == ViewEvents || v == ViewEvent
}

// Guard returns the view to show when v is requested. Protected views
// redirect to the login view while logged out.
func Guard(s *Session, v View) View {
	if v.Protected() && !s.LoggedIn() {
		return ViewLogin
	}
	return v
}
