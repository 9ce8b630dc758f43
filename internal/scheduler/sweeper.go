// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/kampus-go/internal/imagestore"
)

// ImageRefs lists the image references still held by events.
type ImageRefs interface {
	ListImagePublicIDs(ctx context.Context) ([]string, error)
}

// Sweeper removes uploaded images that no event references, such as uploads
// whose event insert failed and could not be rolled back.
type Sweeper struct {
	refs   ImageRefs
	lister imagestore.Lister
	images imagestore.Store
	grace  time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewSweeper returns a Sweeper that lists objects through lister and
// deletes through images. Objects younger than grace are left alone so
// in-flight creates keep their upload.
func NewSweeper(refs ImageRefs, lister imagestore.Lister, images imagestore.Store, grace time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		refs:   refs,
		lister: lister,
		images: images,
		grace:  grace,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep deletes unreferenced objects older than the grace period and
// returns how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	// Objects are listed before references: an event stored in between is
	// seen as a reference, never as an orphan.
	objects, err := s.lister.List(ctx)
	if err != nil {
		return 0, err
	}
	ids, err := s.refs.ListImagePublicIDs(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		referenced[id] = struct{}{}
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	var errs []error
	for _, obj := range objects {
		if _, ok := referenced[obj.PublicID]; ok {
			continue
		}
		if obj.Modified.After(cutoff) {
			continue
		}
		if err := s.images.Delete(ctx, obj.PublicID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", obj.PublicID, err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("removed orphaned images", "count", removed)
	}
	return removed, errors.Join(errs...)
}

// Run is Sweep shaped as a scheduler job.
func (s *Sweeper) Run(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}
