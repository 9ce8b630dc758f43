// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/olegiv/kampus-go/internal/model"
)

// Queries runs the user and event statements against a shared pool.
type Queries struct {
	db *sqlx.DB
}

// New returns Queries bound to db.
func New(db *sqlx.DB) *Queries {
	return &Queries{db: db}
}

// DB returns the underlying handle.
func (q *Queries) DB() *sqlx.DB {
	return q.db
}

// CreateUserParams are the columns written on registration.
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
}

const insertUser = `INSERT INTO users (name, email, password) VALUES (?, ?, ?)`

// CreateUser inserts a user and returns the stored row.
// A duplicate email yields model.ErrEmailTaken.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	var id int64
	var err error

	if q.db.DriverName() == DriverPostgres {
		err = q.db.QueryRowxContext(ctx, q.db.Rebind(insertUser+` RETURNING id`),
			arg.Name, arg.Email, arg.Password).Scan(&id)
	} else {
		var res sql.Result
		res, err = q.db.ExecContext(ctx, q.db.Rebind(insertUser), arg.Name, arg.Email, arg.Password)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("inserting user: %w", err)
	}

	return model.User{
		ID:       id,
		Name:     arg.Name,
		Email:    arg.Email,
		Password: arg.Password,
	}, nil
}

const selectUser = `SELECT id, name, email, password FROM users`

// GetUserByEmail returns the user registered with email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := q.db.GetContext(ctx, &u, q.db.Rebind(selectUser+` WHERE email = ?`), email)
	return u, notFound(err)
}

// GetUserByCredentials returns the user whose email and password both match
// byte for byte, whatever the column collation.
func (q *Queries) GetUserByCredentials(ctx context.Context, email, password string) (model.User, error) {
	var u model.User
	err := q.db.GetContext(ctx, &u,
		q.db.Rebind(selectUser+` WHERE email = ? AND password = ?`), email, password)
	if err != nil {
		return model.User{}, notFound(err)
	}
	if u.Email != email || u.Password != password {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

const selectEvent = `SELECT id, title, date, location, description, organizer, image, image_public_id FROM events`

// ListEvents returns every event, earliest date first. Events on the same
// date are ordered by id so the listing is stable.
func (q *Queries) ListEvents(ctx context.Context) ([]model.Event, error) {
	events := []model.Event{}
	if err := q.db.SelectContext(ctx, &events, selectEvent+` ORDER BY date ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// GetEventByID returns the event with id.
func (q *Queries) GetEventByID(ctx context.Context, id string) (model.Event, error) {
	var e model.Event
	err := q.db.GetContext(ctx, &e, q.db.Rebind(selectEvent+` WHERE id = ?`), id)
	return e, notFound(err)
}

// CreateEventParams are the columns written when an event is created.
type CreateEventParams struct {
	ID            string
	Title         string
	Date          model.Date
	Location      string
	Description   string
	Organizer     string
	Image         string
	ImagePublicID *string
}

// CreateEvent inserts an event and returns the stored row.
// A colliding id yields model.ErrDuplicateID.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	_, err := q.db.ExecContext(ctx, q.db.Rebind(
		`INSERT INTO events (id, title, date, location, description, organizer, image, image_public_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		arg.ID, arg.Title, arg.Date, arg.Location, arg.Description, arg.Organizer, arg.Image, arg.ImagePublicID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Event{}, model.ErrDuplicateID
		}
		return model.Event{}, fmt.Errorf("inserting event: %w", err)
	}
	return q.GetEventByID(ctx, arg.ID)
}

// DeleteEvent removes the event with id. It returns model.ErrNotFound when
// no row was deleted.
func (q *Queries) DeleteEvent(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, q.db.Rebind(`DELETE FROM events WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CountEvents returns the number of stored events.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM events`); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

// ListImagePublicIDs returns the image reference of every event that has
// an uploaded image.
func (q *Queries) ListImagePublicIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := q.db.SelectContext(ctx, &ids,
		`SELECT image_public_id FROM events WHERE image_public_id IS NOT NULL AND image_public_id <> ''`)
	if err != nil {
		return nil, fmt.Errorf("listing image references: %w", err)
	}
	return ids, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}
