// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olegiv/kampus-go/internal/cache"
	"github.com/olegiv/kampus-go/internal/imagestore"
	"github.com/olegiv/kampus-go/internal/metrics"
	"github.com/olegiv/kampus-go/internal/model"
	"github.com/olegiv/kampus-go/internal/store"
	"github.com/olegiv/kampus-go/internal/util"
)

const (
	eventListKey = "events:list"

	// maxIDAttempts bounds retries when a generated id already exists.
	maxIDAttempts = 3
)

// EventService lists, creates and deletes events.
type EventService struct {
	queries *store.Queries
	images  imagestore.Store
	list    *cache.TypedCache[[]model.Event]
	logger  *slog.Logger
	newID   func() (string, error)
}

// NewEventService creates a new EventService. The event list is cached in c
// for ttl and dropped on every create and delete.
func NewEventService(queries *store.Queries, images imagestore.Store, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *EventService {
	return &EventService{
		queries: queries,
		images:  images,
		list:    cache.NewTypedCache[[]model.Event](c, ttl).OnLookup(metrics.TrackCacheLookup),
		logger:  logger,
		newID:   util.NewEventID,
	}
}

// List returns every event ordered by ascending date.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.list.GetOrSet(ctx, eventListKey, func() (*[]model.Event, error) {
		events, err := s.queries.ListEvents(ctx)
		if err != nil {
			return nil, err
		}
		return &events, nil
	})
	if err != nil {
		return nil, err
	}
	return *events, nil
}

// Create validates fields, stores the optional image and inserts the event.
// image may be nil. If the insert fails after an upload, the uploaded
// object is removed again.
func (s *EventService) Create(ctx context.Context, fields model.EventFields, image io.Reader) (ev model.Event, err error) {
	defer func() { metrics.TrackEventMutation("create", err) }()

	date, err := fields.Validate()
	if err != nil {
		return model.Event{}, err
	}

	var obj imagestore.Object
	if image != nil {
		img, err := imagestore.Normalize(image, imagestore.MaxUploadBytes)
		if err != nil {
			if errors.Is(err, imagestore.ErrTooLarge) || errors.Is(err, imagestore.ErrUnsupportedFormat) {
				return model.Event{}, model.NewValidationError("imageFile", err.Error())
			}
			return model.Event{}, err
		}

		obj, err = s.images.Upload(ctx, img)
		if err != nil {
			return model.Event{}, fmt.Errorf("uploading image: %w", err)
		}
	}

	ev, err = s.insert(ctx, fields, date, obj)
	if err != nil {
		if obj.PublicID != "" {
			s.discardUpload(ctx, obj.PublicID)
		}
		return model.Event{}, err
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "event created", "event_id", ev.ID, "has_image", ev.HasStoredImage())
	return ev, nil
}

func (s *EventService) insert(ctx context.Context, fields model.EventFields, date model.Date, obj imagestore.Object) (model.Event, error) {
	params := store.CreateEventParams{
		Title:         fields.Title,
		Date:          date,
		Location:      fields.Location,
		Description:   fields.Description,
		Organizer:     fields.Organizer,
		Image:         obj.URL,
		ImagePublicID: util.StringPtr(obj.PublicID),
	}

	for attempt := 1; ; attempt++ {
		id, err := s.newID()
		if err != nil {
			return model.Event{}, err
		}
		params.ID = id

		ev, err := s.queries.CreateEvent(ctx, params)
		if errors.Is(err, model.ErrDuplicateID) && attempt < maxIDAttempts {
			s.logger.WarnContext(ctx, "event id collision, retrying", "event_id", id, "attempt", attempt)
			continue
		}
		return ev, err
	}
}

// discardUpload removes an image whose event row was never written.
func (s *EventService) discardUpload(ctx context.Context, publicID string) {
	if err := s.images.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove image after insert failure",
			"image_public_id", publicID, "error", err)
	}
}

// Delete removes the event's stored image, if any, and then its row. The
// two steps are not atomic: when the row delete fails after the image was
// removed, the row keeps a dangling image_public_id, which is logged.
func (s *EventService) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.TrackEventMutation("delete", err) }()

	ev, err := s.queries.GetEventByID(ctx, id)
	if err != nil {
		return err
	}

	publicID := util.StringFromPtr(ev.ImagePublicID)
	if publicID != "" {
		if err := s.images.Delete(ctx, publicID); err != nil {
			return fmt.Errorf("deleting image: %w", err)
		}
	}

	if err := s.queries.DeleteEvent(ctx, id); err != nil {
		if publicID != "" {
			s.logger.WarnContext(ctx, "event row kept after its image was deleted",
				"event_id", id, "image_public_id", publicID, "error", err)
		}
		return err
	}

	s.invalidate(ctx)
	s.logger.InfoContext(ctx, "event deleted", "event_id", id)
	return nil
}

func (s *EventService) invalidate(ctx context.Context) {
	if err := s.list.Delete(ctx, eventListKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate event list cache", "error", err)
	}
}
