// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/wunjo/internal/api"
	"github.com/starford/wunjo/internal/credential"
	"github.com/starford/wunjo/internal/gallery"
	"github.com/starford/wunjo/internal/linkservice"
	"github.com/starford/wunjo/internal/probe"
	"github.com/starford/wunjo/internal/session"
	"github.com/starford/wunjo/internal/sse"
	"github.com/starford/wunjo/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_path", cfg.Data.Path),
		slog.String("wallpapers_path", cfg.Wallpapers.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize data and wallpaper directories.
	dataDir, err := storage.NewDir(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init data dir: %w", err)
	}
	wallDir, err := storage.NewDir(cfg.Wallpapers.Path)
	if err != nil {
		return fmt.Errorf("init wallpapers dir: %w", err)
	}

	// Initialize SQLite wallpaper index.
	db, err := gallery.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init wallpaper index: %w", err)
	}
	defer db.Close()

	// Reconcile the index with whatever is on disk.
	if err := gallery.Sync(db, wallDir, logger); err != nil {
		logger.Warn("initial wallpaper sync failed", slog.String("error", err.Error()))
	}

	// SSE broker for dashboard change events.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build services.
	creds, err := credential.NewStore(dataDir, cfg.Auth.DefaultPassword)
	if err != nil {
		return fmt.Errorf("init credentials: %w", err)
	}
	sessions := session.NewMemoryStore(cfg.Auth.TokenTTL)
	links := linkservice.NewService(dataDir)
	checker := probe.NewChecker(cfg.Probe.Timeout)
	wallpapers := gallery.NewService(wallDir, db)

	h := api.NewHandler(links, creds, sessions, checker, wallpapers, broker)
	apiRouter := api.NewRouter(h, sessions, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Stored wallpaper images.
	r.Get(gallery.URLPrefix+"{filename}", api.WallpaperFileServer(wallDir.Root()))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the wallpaper directory so out-of-band file changes reach the
	// index and the SSE feed.
	g.Go(func() error {
		return gallery.Watch(gCtx, db, wallDir, wallDir.Root(), logger, func(kind, name string) {
			broker.PublishChange("wallpaper."+kind, name)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
