// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestTypedCacheGetOrSet(t *testing.T) {
	ctx := context.Background()
	tc := NewTypedCache[[]item](NewMemoryCache(time.Minute, 0), time.Minute)

	var lookups []bool
	tc.OnLookup(func(hit bool) { lookups = append(lookups, hit) })

	calls := 0
	load := func() (*[]item, error) {
		calls++
		v := []item{{Name: "a"}, {Name: "b"}}
		return &v, nil
	}

	first, err := tc.GetOrSet(ctx, "list", load)
	require.NoError(t, err)
	second, err := tc.GetOrSet(ctx, "list", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, *first, *second)
	assert.Equal(t, []bool{false, true}, lookups)

	require.NoError(t, tc.Delete(ctx, "list"))
	_, err = tc.GetOrSet(ctx, "list", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestTypedCacheGetOrSetError(t *testing.T) {
	ctx := context.Background()
	tc := NewTypedCache[item](NewMemoryCache(time.Minute, 0), time.Minute)

	boom := errors.New("db down")
	_, err := tc.GetOrSet(ctx, "k", func() (*item, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, ok := tc.Get(ctx, "k")
	assert.False(t, ok)
}

func TestTypedCacheUndecodableIsMiss(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryCache(time.Minute, 0)
	require.NoError(t, mem.Set(ctx, "k", []byte("{not json"), 0))

	tc := NewTypedCache[item](mem, time.Minute)
	_, ok := tc.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewCacheFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := NewCache(Config{RedisURL: "not a redis url", DefaultTTL: time.Minute}, logger)
	defer func() { _ = c.Close() }()
	assert.IsType(t, &MemoryCache{}, c)

	m := NewCache(Config{DefaultTTL: time.Minute}, logger)
	defer func() { _ = m.Close() }()
	assert.IsType(t, &MemoryCache{}, m)
}
