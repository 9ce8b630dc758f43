// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/olegiv/kampus-go/internal/model"
)

// NewEventID returns a short URL-safe random identifier for an event.
func NewEventID() (string, error) {
	id, err := gonanoid.New(model.EventIDLength)
	if err != nil {
		return "", fmt.Errorf("generating event id: %w", err)
	}
	return id, nil
}
