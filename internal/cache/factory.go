// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and tunes the cache backend.
type Config struct {
	// RedisURL selects Redis when set, e.g. redis://localhost:6379/0.
	RedisURL string
	// Prefix is prepended to every Redis key.
	Prefix     string
	DefaultTTL time.Duration
}

// NewCache returns a Redis cache when RedisURL is set and reachable and a
// memory cache otherwise. An unreachable Redis is logged, not fatal.
func NewCache(cfg Config, logger *slog.Logger) Cacher {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			logger.Info("using redis cache", "prefix", cfg.Prefix)
			return rc
		}
		logger.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	logger.Info("using memory cache", "ttl", cfg.DefaultTTL)
	return NewMemoryCache(cfg.DefaultTTL, time.Minute)
}
