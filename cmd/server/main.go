// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/homematch/internal/api"
	"github.com/tomtom215/homematch/internal/config"
	"github.com/tomtom215/homematch/internal/feedback"
	"github.com/tomtom215/homematch/internal/logging"
	"github.com/tomtom215/homematch/internal/metrics"
	"github.com/tomtom215/homematch/internal/middleware"
	"github.com/tomtom215/homematch/internal/recommend"
	"github.com/tomtom215/homematch/internal/supervisor"
	"github.com/tomtom215/homematch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	startTime := time.Now()
	metrics.SetAppInfo(version, runtime.Version())

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("artifacts_dir", cfg.Artifacts.Dir).
		Str("catalog_path", cfg.Artifacts.CatalogPath).
		Msg("Starting Homematch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bundles, err := initBundleSources(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open bundle sources")
	}
	defer func() {
		if err := bundles.DB.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing duckdb")
		}
	}()

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	if err := loadInitialBundle(ctx, bundles, engine, logging.WithComponent("bundle")); err != nil {
		logging.Fatal().Err(err).Msg("Artifacts are unusable, refusing to start")
	}

	// Assign through the interface only when enabled; a typed nil would
	// read as enabled to the handlers.
	var feedbackStore api.FeedbackStore
	if cfg.Feedback.Enabled {
		store, err := feedback.Open(feedback.Config{Path: cfg.Feedback.Path, SyncWrites: true})
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Feedback.Path).Msg("Failed to open feedback store")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing feedback store")
			}
		}()
		feedbackStore = store
	}

	perf := middleware.NewPerformanceMonitor(cfg.Server.StatsWindow, cfg.Server.SlowRequestThreshold, logging.WithComponent("perf"))

	handler := api.NewHandler(engine, feedbackStore, perf, api.HandlerConfig{
		Version:           version,
		FeedbackListLimit: cfg.Feedback.MaxListLimit,
	})
	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security))
	router := api.NewRouter(handler, chiMiddleware, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	reloadSvc := services.NewReloadService(bundles.Loader, engine, services.ReloadServiceConfig{
		ArtifactsDir: cfg.Artifacts.Dir,
		CatalogPath:  cfg.Artifacts.CatalogPath,
		Watch:        cfg.Artifacts.Watch,
		Debounce:     cfg.Artifacts.Debounce,
	}, logging.WithComponent("reload"))
	tree.AddDataService(reloadSvc)

	httpSvc := services.NewHTTPServerService(server, services.HTTPServiceConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		OnDrain: func() {
			st := engine.Stats()
			logging.Info().
				Int64("requests", st.Requests).
				Int64("errors", st.Errors).
				Int64("cache_hits", st.CacheHits).
				Str(logging.FieldBundleVersion, st.BundleVersion).
				Msg("Draining HTTP server")
		},
	}, logging.WithComponent("http"))
	tree.AddAPIService(httpSvc)

	logging.Info().Str("addr", server.Addr).Bool("feedback", cfg.Feedback.Enabled).Msg("HTTP server configured")
	for layer, names := range tree.Services() {
		logging.Debug().Str("layer", string(layer)).Strs("services", names).Msg("Supervisor layer")
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				logging.Info().Msg("SIGHUP received, reloading bundle")
				reloadSvc.Trigger()
				continue
			}
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
			return
		}
	}()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			metrics.UpdateUptime(startTime)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error during shutdown")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().
		Int64("reloads", reloadSvc.Reloads()).
		Int64("reload_failures", reloadSvc.Failures()).
		Int64("http_starts", httpSvc.Starts()).
		Msg("Homematch stopped")
}
