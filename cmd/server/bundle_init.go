// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/homematch/internal/config"
	"github.com/tomtom215/homematch/internal/database"
	"github.com/tomtom215/homematch/internal/logging"
	"github.com/tomtom215/homematch/internal/recommend"
	"github.com/tomtom215/homematch/internal/similarity"
	"github.com/tomtom215/homematch/internal/supervisor/services"
)

// BundleComponents holds what is needed to build bundles.
type BundleComponents struct {
	DB        *database.DB
	Artifacts *similarity.ArtifactStore
	Loader    services.BundleLoader
}

// initBundleSources opens DuckDB and the artifact directory and returns a
// loader that builds a bundle from their current contents.
func initBundleSources(ctx context.Context, cfg *config.Config) (*BundleComponents, error) {
	db, err := database.Open(ctx, database.Config{
		Threads:   cfg.Database.Threads,
		MaxMemory: cfg.Database.MaxMemory,
	})
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	artifacts, err := similarity.OpenArtifactStore(cfg.Artifacts.Dir)
	if err != nil {
		_ = db.Close() //nolint:errcheck // already returning the open error
		return nil, fmt.Errorf("open artifact store: %w", err)
	}

	catalogPath := cfg.Artifacts.CatalogPath
	loader := func(ctx context.Context) (*recommend.Bundle, error) {
		return recommend.LoadBundle(ctx, artifacts, db, catalogPath)
	}

	return &BundleComponents{DB: db, Artifacts: artifacts, Loader: loader}, nil
}

// loadInitialBundle publishes the first bundle.
//
// A dimension mismatch or a non-finite score means the artifacts are
// unusable and the process must not start. Any other failure (typically
// artifacts not yet written) leaves the engine unready; the reload
// service picks the bundle up once the files appear.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func loadInitialBundle(ctx context.Context, bc *BundleComponents, engine *recommend.Engine, logger zerolog.Logger) error {
	b, err := bc.Loader(ctx)
	switch {
	case errors.Is(err, similarity.ErrDimensionMismatch), errors.Is(err, similarity.ErrNonFinite):
		return err
	case err != nil:
		logger.Warn().Err(err).
			Str("artifacts_dir", bc.Artifacts.Dir()).
			Msg("no bundle loaded at startup, serving not-ready until artifacts appear")
		return nil
	}

	engine.Swap(b)
	logger.Info().
		Str(logging.FieldBundleVersion, b.Version).
		Int(logging.FieldItems, b.Size()).
		Int("artifacts", len(b.Artifacts)).
		Msg("bundle loaded")
	return nil
}
