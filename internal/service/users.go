// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the business rules behind the API: registration,
// login and the event lifecycle across the Event Store and Image Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/kampus-go/internal/model"
	"github.com/olegiv/kampus-go/internal/store"
)

// RegisterInput is the data submitted to create an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserService registers and authenticates users.
type UserService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(queries *store.Queries, logger *slog.Logger) *UserService {
	return &UserService{
		queries: queries,
		logger:  logger,
	}
}

// Register creates an account. Every field is required and the email must
// not already be registered.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.PublicUser, error) {
	if err := model.RequireFields(map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}); err != nil {
		return model.PublicUser{}, err
	}

	_, err := s.queries.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return model.PublicUser{}, model.ErrEmailTaken
	case !errors.Is(err, model.ErrNotFound):
		return model.PublicUser{}, fmt.Errorf("checking email: %w", err)
	}

	// A concurrent registration can still win the race; CreateUser maps
	// the unique violation to ErrEmailTaken.
	u, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return model.PublicUser{}, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u.Public(), nil
}

// Login returns the user whose email and password both match exactly.
// Any mismatch, including empty input, yields model.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (model.PublicUser, error) {
	if email == "" || password == "" {
		return model.PublicUser{}, model.ErrInvalidCredentials
	}

	u, err := s.queries.GetUserByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.ErrInvalidCredentials
		}
		return model.PublicUser{}, fmt.Errorf("looking up credentials: %w", err)
	}
	return u.Public(), nil
}
