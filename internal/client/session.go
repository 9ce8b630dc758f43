// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/olegiv/kampus-go/internal/model"
)

const (
	sessionDir  = "kampus"
	sessionFile = "session.json"
)

// sessionState is the persisted form of a Session.
type sessionState struct {
	LoggedIn bool              `json:"isLoggedIn"`
	User     *model.PublicUser `json:"user"`
}

// Session is the client's login flag. It starts logged out, becomes logged
// in after a successful login and is reset by Logout. The flag survives
// restarts through a small JSON file.
type Session struct {
	mu    sync.RWMutex
	path  string
	state sessionState
}

// DefaultSessionPath returns the session file under the user config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, sessionDir, sessionFile), nil
}

// LoadSession reads the session stored at path. A missing file is a
// logged-out session. A file holding a user counts as logged in.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var st sessionState
	if err := json.Unmarshal(data, &st); err != nil {
		// A corrupt file counts as logged out.
		_ = os.Remove(path)
		return s, nil
	}
	st.LoggedIn = st.User != nil
	s.state = st
	return s, nil
}

// LoggedIn reports whether the user has logged in.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LoggedIn
}

// User returns the cached user, if any.
func (s *Session) User() (model.PublicUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return model.PublicUser{}, false
	}
	return *s.state.User, true
}

// Login records user and sets the flag.
func (s *Session) Login(user model.PublicUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := sessionState{LoggedIn: true, User: &user}
	if err := writeSession(s.path, next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Logout clears the stored user and resets the session to its initial
// logged-out state.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.state = sessionState{}
	return nil
}

func writeSession(path string, st sessionState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}
