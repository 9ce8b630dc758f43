// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// EventIDLength is the length of generated event identifiers.
const EventIDLength = 10

// Event is a campus event listed on the bulletin.
//
// Image is empty, a logical asset name (seed data only) or a URL issued by the
// image store. ImagePublicID is set only when the image was uploaded.
type Event struct {
	ID            string  `db:"id" json:"id"`
	Title         string  `db:"title" json:"title"`
	Date          Date    `db:"date" json:"date"`
	Location      string  `db:"location" json:"location"`
	Description   string  `db:"description" json:"description"`
	Organizer     string  `db:"organizer" json:"organizer"`
	Image         string  `db:"image" json:"image"`
	ImagePublicID *string `db:"image_public_id" json:"image_public_id"`
}

// HasStoredImage reports whether the event references an object in the image store.
func (e Event) HasStoredImage() bool {
	return e.ImagePublicID != nil && *e.ImagePublicID != ""
}

// EventFields are the creator-supplied text fields of an event.
type EventFields struct {
	Title       string
	Date        string
	Location    string
	Description string
	Organizer   string
}

// Validate checks that every required field is present and that the date is a
// calendar date. It returns the parsed date on success.
func (f EventFields) Validate() (Date, error) {
	verr := &ValidationError{}
	verr.require("title", f.Title)
	verr.require("date", f.Date)
	verr.require("location", f.Location)
	verr.require("description", f.Description)
	verr.require("organizer", f.Organizer)

	var date Date
	if strings.TrimSpace(f.Date) != "" {
		d, err := ParseDate(f.Date)
		if err != nil {
			verr.Add("date", "must be a date in YYYY-MM-DD format")
		} else {
			date = d
		}
	}

	if verr.HasErrors() {
		return Date{}, verr
	}
	return date, nil
}
