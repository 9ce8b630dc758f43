// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/olegiv/kampus-go/internal/cache"
	"github.com/olegiv/kampus-go/internal/config"
	"github.com/olegiv/kampus-go/internal/handler/api"
	"github.com/olegiv/kampus-go/internal/imagestore"
	"github.com/olegiv/kampus-go/internal/logging"
	"github.com/olegiv/kampus-go/internal/metrics"
	"github.com/olegiv/kampus-go/internal/middleware"
	"github.com/olegiv/kampus-go/internal/scheduler"
	"github.com/olegiv/kampus-go/internal/service"
	"github.com/olegiv/kampus-go/internal/store"
	"github.com/olegiv/kampus-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "kampus - campus event bulletin API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KAMPUS_DB_DRIVER       sqlite|postgres|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KAMPUS_DB_DSN          Database DSN (default: ./data/kampus.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KAMPUS_SERVER_PORT     Server port (default: 5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KAMPUS_IMAGE_STORE     local|s3 (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KAMPUS_REDIS_URL       Redis URL for the event list cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  KAMPUS_LOG_FORMAT      text|json (default: text)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("kampus %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting kampus", "version", info.String(), "env", cfg.Env)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}()

	ctx := context.Background()
	queries := store.New(db)

	if cfg.DoSeed {
		if err := store.Seed(ctx, queries, logger); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	images, uploadsRoot, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("image store ready", "backend", cfg.ImageStore, "folder", cfg.ImageFolder)

	eventCache := cache.NewCache(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
	}, logger)
	defer func() { _ = eventCache.Close() }()

	instrumented := imagestore.Instrument(images)

	if cfg.SweepEnabled {
		if lister, ok := images.(imagestore.Lister); ok {
			sched := scheduler.New(logger)
			sweeper := scheduler.NewSweeper(queries, lister, instrumented, cfg.SweepGrace, logger)
			if err := sched.Add("orphan-image-sweep", cfg.SweepSchedule, 10*time.Minute, sweeper.Run); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
		}
	}

	apiHandler := api.NewHandler(
		service.NewUserService(queries, logger),
		service.NewEventService(queries, instrumented, eventCache, cfg.CacheTTL, logger),
		db, logger, info.Version,
	)
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics)
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Mount("/api", apiHandler.Routes(authLimiter.Middleware))
	})

	if uploadsRoot != "" {
		prefix := strings.TrimSuffix(imagestore.URLPrefix, "/")
		r.Handle(imagestore.URLPrefix+"*",
			http.StripPrefix(prefix, http.FileServer(http.Dir(uploadsRoot))))
	}

	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "Not found")
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "public_url", cfg.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// openDatabase connects to the configured database and brings its schema up
// to date.
func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.NewDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	return db, nil
}

// newImageStore builds the configured image store. For the local backend it
// also returns the directory to serve under /uploads.
func newImageStore(ctx context.Context, cfg *config.Config) (imagestore.Store, string, error) {
	switch cfg.ImageStore {
	case config.ImageStoreS3:
		s3, err := imagestore.NewS3(ctx, imagestore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
			PublicURL: cfg.S3PublicURL,
			Folder:    cfg.ImageFolder,
		})
		if err != nil {
			return nil, "", fmt.Errorf("initializing s3 image store: %w", err)
		}
		return s3, "", nil
	default:
		local, err := imagestore.NewLocal(cfg.UploadsDir, cfg.ImageFolder)
		if err != nil {
			return nil, "", fmt.Errorf("initializing local image store: %w", err)
		}
		return local, local.Root(), nil
	}
}
