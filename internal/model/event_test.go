// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() EventFields {
	return EventFields{
		Title:       "T",
		Date:        "2025-01-01",
		Location:    "L",
		Description: "D",
		Organizer:   "O",
	}
}

func TestEventFieldsValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(f *EventFields)
		wantFields []string
	}{
		{name: "all present", mutate: func(f *EventFields) {}},
		{name: "missing title", mutate: func(f *EventFields) { f.Title = "" }, wantFields: []string{"title"}},
		{name: "missing date", mutate: func(f *EventFields) { f.Date = "" }, wantFields: []string{"date"}},
		{name: "missing location", mutate: func(f *EventFields) { f.Location = "" }, wantFields: []string{"location"}},
		{name: "missing description", mutate: func(f *EventFields) { f.Description = "  " }, wantFields: []string{"description"}},
		{name: "missing organizer", mutate: func(f *EventFields) { f.Organizer = "" }, wantFields: []string{"organizer"}},
		{name: "malformed date", mutate: func(f *EventFields) { f.Date = "01/02/2025" }, wantFields: []string{"date"}},
		{name: "date with trailing junk", mutate: func(f *EventFields) { f.Date = "2025-01-01Tgarbage" }, wantFields: []string{"date"}},
		{name: "date with trailing words", mutate: func(f *EventFields) { f.Date = "2025-01-01 not a date" }, wantFields: []string{"date"}},
		{
			name:       "several missing",
			mutate:     func(f *EventFields) { f.Title = ""; f.Organizer = "" },
			wantFields: []string{"title", "organizer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)

			date, err := f.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, "2025-01-01", date.String())
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
		})
	}
}

func TestEventJSON(t *testing.T) {
	publicID := "event-kampus-uploads/abc.jpg"
	ev := Event{
		ID:            "abcdefghij",
		Title:         "T",
		Date:          NewDate(2025, 1, 1),
		Location:      "L",
		Description:   "D",
		Organizer:     "O",
		Image:         "/uploads/event-kampus-uploads/abc.jpg",
		ImagePublicID: &publicID,
	}

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "abcdefghij",
		"title": "T",
		"date": "2025-01-01",
		"location": "L",
		"description": "D",
		"organizer": "O",
		"image": "/uploads/event-kampus-uploads/abc.jpg",
		"image_public_id": "event-kampus-uploads/abc.jpg"
	}`, string(data))
	assert.True(t, ev.HasStoredImage())

	ev.ImagePublicID = nil
	ev.Image = ""
	data, err = json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"image_public_id":null`)
	assert.False(t, ev.HasStoredImage())
}

func TestHasStoredImageEmptyReference(t *testing.T) {
	empty := ""
	ev := Event{ImagePublicID: &empty}
	assert.False(t, ev.HasStoredImage())
}
