// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from KAMPUS_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/kampus-go/internal/scheduler"
	"github.com/olegiv/kampus-go/internal/store"
)

// Image store backends.
const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver   string `env:"KAMPUS_DB_DRIVER" envDefault:"sqlite"`
	DBDSN      string `env:"KAMPUS_DB_DSN" envDefault:"./data/kampus.db"`
	ServerHost string `env:"KAMPUS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"KAMPUS_SERVER_PORT" envDefault:"5000"`
	Env        string `env:"KAMPUS_ENV" envDefault:"development"`
	LogLevel   string `env:"KAMPUS_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"KAMPUS_LOG_FORMAT" envDefault:"text"`
	// PublicURL is the origin clients use to reach the API. Defaults to
	// http://ServerHost:ServerPort.
	PublicURL string `env:"KAMPUS_PUBLIC_URL"`

	// Image store
	ImageStore  string `env:"KAMPUS_IMAGE_STORE" envDefault:"local"`
	ImageFolder string `env:"KAMPUS_IMAGE_FOLDER" envDefault:"event-kampus-uploads"`
	UploadsDir  string `env:"KAMPUS_UPLOADS_DIR" envDefault:"./uploads"`
	S3Endpoint  string `env:"KAMPUS_S3_ENDPOINT"`
	S3AccessKey string `env:"KAMPUS_S3_ACCESS_KEY"`
	S3SecretKey string `env:"KAMPUS_S3_SECRET_KEY"`
	S3Bucket    string `env:"KAMPUS_S3_BUCKET"`
	S3UseSSL    bool   `env:"KAMPUS_S3_USE_SSL" envDefault:"false"`
	S3PublicURL string `env:"KAMPUS_S3_PUBLIC_URL"`

	// Cache configuration
	RedisURL    string        `env:"KAMPUS_REDIS_URL"` // Optional; memory cache when empty
	CachePrefix string        `env:"KAMPUS_CACHE_PREFIX" envDefault:"kampus:"`
	CacheTTL    time.Duration `env:"KAMPUS_CACHE_TTL" envDefault:"5m"`

	// HTTP
	CORSOrigins    []string      `env:"KAMPUS_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	AuthRateLimit  float64       `env:"KAMPUS_AUTH_RATE_LIMIT" envDefault:"1"` // requests per second per IP
	AuthRateBurst  int           `env:"KAMPUS_AUTH_RATE_BURST" envDefault:"5"`
	RequestTimeout time.Duration `env:"KAMPUS_REQUEST_TIMEOUT" envDefault:"30s"`
	MetricsEnabled bool          `env:"KAMPUS_METRICS_ENABLED" envDefault:"true"`

	// Orphaned image cleanup
	SweepEnabled  bool          `env:"KAMPUS_SWEEP_ENABLED" envDefault:"true"`
	SweepSchedule string        `env:"KAMPUS_SWEEP_SCHEDULE" envDefault:"@hourly"`
	SweepGrace    time.Duration `env:"KAMPUS_SWEEP_GRACE" envDefault:"1h"`

	// Seed example events into an empty events table
	DoSeed bool `env:"KAMPUS_DO_SEED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// BaseURL returns PublicURL, or the listen address as an http URL.
func (c Config) BaseURL() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	return "http://" + c.ServerAddr()
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations env.Parse cannot express.
func (c Config) Validate() error {
	var errs []error

	if !store.IsSupportedDriver(c.DBDriver) {
		errs = append(errs, fmt.Errorf("KAMPUS_DB_DRIVER must be sqlite, postgres or mysql, got %q", c.DBDriver))
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("KAMPUS_DB_DSN must not be empty"))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("KAMPUS_SERVER_PORT out of range: %d", c.ServerPort))
	}

	switch c.ImageStore {
	case ImageStoreLocal:
		if c.UploadsDir == "" {
			errs = append(errs, errors.New("KAMPUS_UPLOADS_DIR is required for the local image store"))
		}
	case ImageStoreS3:
		var missing []string
		for name, v := range map[string]string{
			"KAMPUS_S3_ENDPOINT":   c.S3Endpoint,
			"KAMPUS_S3_ACCESS_KEY": c.S3AccessKey,
			"KAMPUS_S3_SECRET_KEY": c.S3SecretKey,
			"KAMPUS_S3_BUCKET":     c.S3Bucket,
		} {
			if v == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			errs = append(errs, fmt.Errorf("s3 image store requires %s", strings.Join(missing, ", ")))
		}
	default:
		errs = append(errs, fmt.Errorf("KAMPUS_IMAGE_STORE must be local or s3, got %q", c.ImageStore))
	}

	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		errs = append(errs, errors.New("KAMPUS_AUTH_RATE_LIMIT and KAMPUS_AUTH_RATE_BURST must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("KAMPUS_REQUEST_TIMEOUT must be positive"))
	}
	if c.SweepEnabled {
		if err := scheduler.ValidateSchedule(c.SweepSchedule); err != nil {
			errs = append(errs, fmt.Errorf("KAMPUS_SWEEP_SCHEDULE: %w", err))
		}
		if c.SweepGrace < time.Minute {
			errs = append(errs, errors.New("KAMPUS_SWEEP_GRACE must be at least 1m"))
		}
	}

	return errors.Join(errs...)
}
