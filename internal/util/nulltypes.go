// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions.
package util

// StringPtr returns a pointer to s, or nil if s is empty.
// Used for nullable text columns such as events.image_public_id.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringFromPtr dereferences p, returning "" for nil.
func StringFromPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
