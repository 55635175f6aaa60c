// Package internal provides the application wiring: the optimize run, the
// HTTP query server, and the MCP query server.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/perthos/docpress/internal/api"
	"github.com/perthos/docpress/internal/loader"
	"github.com/perthos/docpress/internal/mcpserver"
	"github.com/perthos/docpress/internal/models"
	"github.com/perthos/docpress/internal/normalize"
	"github.com/perthos/docpress/internal/query"
	"github.com/perthos/docpress/internal/runner"
	"github.com/perthos/docpress/internal/store"
)

// OptimizeParams identifies the source tree for one pipeline run.
type OptimizeParams struct {
	Src    string
	Repo   string
	Ref    string
	Topics []string
}

// Optimize runs the transform-and-publish pipeline over a source tree and
// returns the run report. Configuration problems (bad profile, unwritable
// output root) fail before any document is processed; per-document failures
// are recorded in the report.
func Optimize(ctx context.Context, cfg *Config, params OptimizeParams) (*models.RunReport, error) {
	logger := newLogger(cfg)

	pipeline, err := normalize.New(cfg.Pipeline.NormalizeConfig())
	if err != nil {
		return nil, err
	}

	st, err := store.NewFS(cfg.Output.Path)
	if err != nil {
		return nil, err
	}

	ld, err := loader.New(params.Src, params.Repo, params.Ref, logger,
		loader.WithTopics(params.Topics),
		loader.WithPatterns(cfg.Pipeline.Include, mergeExcludes(cfg.Pipeline.Exclude)),
	)
	if err != nil {
		return nil, err
	}
	docs, err := ld.Discover()
	if err != nil {
		return nil, err
	}

	logger.Info("starting run",
		slog.String("src", params.Src),
		slog.String("repo", params.Repo),
		slog.String("ref", params.Ref),
		slog.String("profile", cfg.Pipeline.Profile),
		slog.Int("documents", len(docs)))

	publisher := store.NewPublisher(st, logger)
	r := runner.New(pipeline, publisher, cfg.Pipeline.Concurrency, logger)
	return r.Run(ctx, docs)
}

// Run starts the HTTP query server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("output_path", cfg.Output.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	st, idx, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	svc := query.NewService(st, idx)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

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

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the manifest index when a publish run replaces it.
	g.Go(func() error {
		if err := idx.Watch(gCtx, st, st.Root(), logger); err != nil {
			logger.Warn("manifest watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

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

// RunMCP serves the query tools over stdio for MCP clients.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// Logs go to stderr: stdout carries the MCP protocol.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	st, idx, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	go func() {
		if err := idx.Watch(ctx, st, st.Root(), logger); err != nil {
			logger.Warn("manifest watcher failed", slog.String("error", err.Error()))
		}
	}()

	srv := mcpserver.New(query.NewService(st, idx))
	logger.Info("MCP server starting on stdio", slog.String("output_path", cfg.Output.Path))
	return srv.ServeStdio()
}

func openStore(cfg *Config, logger *slog.Logger) (*store.FS, *query.Index, error) {
	st, err := store.NewFS(cfg.Output.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}
	idx := query.NewIndex()
	if err := idx.Load(st); err != nil {
		logger.Warn("initial manifest load failed", slog.String("error", err.Error()))
	}
	return st, idx, nil
}

func newLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}

// mergeExcludes unions user excludes with the defaults so a custom list
// never re-admits node_modules and friends.
func mergeExcludes(extra []string) []string {
	if len(extra) == 0 {
		return loader.DefaultExclude
	}
	out := make([]string, 0, len(loader.DefaultExclude)+len(extra))
	out = append(out, loader.DefaultExclude...)
	for _, e := range extra {
		if !contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
