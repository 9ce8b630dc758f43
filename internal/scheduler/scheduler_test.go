// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/olegiv/kampus-go/internal/testutil"
)

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"@hourly", false},
		{"*/15 * * * *", false},
		{"0 3 * * *", false},
		{"", true},
		{"every hour", true},
		{"* * * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := ValidateSchedule(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.DiscardLogger())

	err := s.Add("noop", "@hourly", time.Second, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := len(s.cron.Entries()); got != 1 {
		t.Errorf("entries = %d, want 1", got)
	}

	s.Start()
	s.Stop()
}

func TestScheduler_AddInvalidSpec(t *testing.T) {
	s := New(testutil.DiscardLogger())
	if err := s.Add("bad", "not a schedule", time.Second, func(context.Context) error { return nil }); err == nil {
		t.Error("Add() with invalid spec should fail")
	}
}
