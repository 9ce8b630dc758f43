// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imagestore uploads event images to external storage and removes
// them again. Uploaded images are validated and normalized before they
// reach a backend.
package imagestore

import (
	"context"
	"errors"
	"time"

	"github.com/olegiv/kampus-go/internal/metrics"
)

// MaxUploadBytes is the largest accepted image upload.
const MaxUploadBytes = 5 << 20

// DefaultFolder is the key prefix under which images are stored.
const DefaultFolder = "event-kampus-uploads"

var (
	// ErrTooLarge is returned for images above the size limit.
	ErrTooLarge = errors.New("image exceeds 5 MB limit")

	// ErrUnsupportedFormat is returned for content that is not JPEG, PNG or WebP.
	ErrUnsupportedFormat = errors.New("image must be JPEG, PNG or WebP")
)

// Image is a normalized image ready to upload.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Object identifies an uploaded image.
type Object struct {
	// URL is stored in the event's image field.
	URL string
	// PublicID is the reference used to delete the object later.
	PublicID string
}

// Store is an external image store.
type Store interface {
	Upload(ctx context.Context, img *Image) (Object, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, publicID string) error
}

// StoredObject is an object found by listing a store.
type StoredObject struct {
	PublicID string
	Modified time.Time
}

// Lister is implemented by stores that can enumerate their objects.
type Lister interface {
	List(ctx context.Context) ([]StoredObject, error)
}

// Instrument wraps s so every call is counted in the image store metrics.
func Instrument(s Store) Store {
	return instrumented{next: s}
}

type instrumented struct {
	next Store
}

func (i instrumented) Upload(ctx context.Context, img *Image) (Object, error) {
	obj, err := i.next.Upload(ctx, img)
	metrics.TrackImageStore("upload", err)
	return obj, err
}

func (i instrumented) Delete(ctx context.Context, publicID string) error {
	err := i.next.Delete(ctx, publicID)
	metrics.TrackImageStore("delete", err)
	return err
}
