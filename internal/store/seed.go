// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/kampus-go/internal/model"
	"github.com/olegiv/kampus-go/internal/util"
)

// SeedEvents are inserted into an empty events table on first start.
// Their images are logical asset names resolved by the client.
var SeedEvents = []CreateEventParams{
	{
		Title:       "Seminar Ilmu Komputer",
		Date:        model.NewDate(2025, time.November, 5),
		Location:    "Aula Fakultas Ilmu Komputer",
		Description: "Seminar membahas tren terbaru dalam dunia IT dan AI.",
		Organizer:   "IMILKOM",
		Image:       "SeminarIlkom",
	},
	{
		Title:       "Pelatihan Dasar Organisasi",
		Date:        model.NewDate(2025, time.October, 25),
		Location:    "Gedung D Fasilkom-TI",
		Description: "Pelatihan Dasar Organisasi untuk mahasiswa baru Fasilkom-TI.",
		Organizer:   "IMILKOM",
		Image:       "Pelatihan",
	},
}

// Seed inserts SeedEvents when the events table is empty. It is a no-op on
// every later start, including after all seeded events were deleted and new
// ones created.
func Seed(ctx context.Context, q *Queries, logger *slog.Logger) error {
	n, err := q.CountEvents(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Debug("events table not empty, skipping seed", "count", n)
		return nil
	}

	tx, err := q.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ev := range SeedEvents {
		id, err := util.NewEventID()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(
			`INSERT INTO events (id, title, date, location, description, organizer, image, image_public_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`),
			id, ev.Title, ev.Date, ev.Location, ev.Description, ev.Organizer, ev.Image)
		if err != nil {
			return fmt.Errorf("seeding event %q: %w", ev.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	logger.Info("seeded events", "count", len(SeedEvents))
	return nil
}
