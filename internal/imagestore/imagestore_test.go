// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagestore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubStore struct {
	uploadErr error
	deleted   []string
}

func (s *stubStore) Upload(context.Context, *Image) (Object, error) {
	if s.uploadErr != nil {
		return Object{}, s.uploadErr
	}
	return Object{URL: "/uploads/x.jpg", PublicID: "x.jpg"}, nil
}

func (s *stubStore) Delete(_ context.Context, publicID string) error {
	s.deleted = append(s.deleted, publicID)
	return nil
}

func TestInstrumentPassesThrough(t *testing.T) {
	stub := &stubStore{}
	s := Instrument(stub)

	obj, err := s.Upload(context.Background(), &Image{})
	assert.NoError(t, err)
	assert.Equal(t, "x.jpg", obj.PublicID)

	assert.NoError(t, s.Delete(context.Background(), "x.jpg"))
	assert.Equal(t, []string{"x.jpg"}, stub.deleted)

	stub.uploadErr = errors.New("unavailable")
	_, err = s.Upload(context.Background(), &Image{})
	assert.ErrorIs(t, err, stub.uploadErr)
}
