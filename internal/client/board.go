// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package client

import (
	"context"
	"slices"
	"sync"

	"github.com/olegiv/kampus-go/internal/model"
)

// Board is the state behind the events view.
type Board struct {
	client *Client

	mu     sync.RWMutex
	events []model.Event
}

// NewBoard returns an empty board backed by c.
func NewBoard(c *Client) *Board {
	return &Board{client: c}
}

// Events returns a copy of the displayed events.
func (b *Board) Events() []model.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.events)
}

// Find returns the displayed event with id.
func (b *Board) Find(id string) (model.Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := slices.IndexFunc(b.events, func(e model.Event) bool { return e.ID == id })
	if i < 0 {
		return model.Event{}, false
	}
	return b.events[i], true
}

// Refresh replaces the displayed events with the server's list, resolving
// each image for display. On error the previous list is kept.
func (b *Board) Refresh(ctx context.Context) error {
	events, err := b.client.ListEvents(ctx)
	if err != nil {
		return err
	}
	for i := range events {
		events[i].Image = ResolveImage(b.client.Origin(), events[i].Image)
	}

	b.mu.Lock()
	b.events = events
	b.mu.Unlock()
	return nil
}

// Add creates ev on the server and then reloads the whole list so the
// stored image URL is displayed.
func (b *Board) Add(ctx context.Context, ev NewEvent) (model.Event, error) {
	created, err := b.client.CreateEvent(ctx, ev)
	if err != nil {
		return model.Event{}, err
	}
	if err := b.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Remove deletes the event on the server and drops it from the displayed
// list only once the server has confirmed.
func (b *Board) Remove(ctx context.Context, id string) error {
	if _, err := b.client.DeleteEvent(ctx, id); err != nil {
		return err
	}

	b.mu.Lock()
	b.events = slices.DeleteFunc(b.events, func(e model.Event) bool { return e.ID == id })
	b.mu.Unlock()
	return nil
}
