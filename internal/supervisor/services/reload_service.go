// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tomtom215/homematch/internal/logging"
	"github.com/tomtom215/homematch/internal/metrics"
	"github.com/tomtom215/homematch/internal/recommend"
	"github.com/tomtom215/homematch/internal/similarity"
)

// BundleLoader builds a complete bundle from the current files.
type BundleLoader func(ctx context.Context) (*recommend.Bundle, error)

// BundlePublisher atomically replaces the served bundle.
// Satisfied by *recommend.Engine.
type BundlePublisher interface {
	Swap(b *recommend.Bundle) *recommend.Bundle
}

// ReloadServiceConfig holds configuration for the reload service.
type ReloadServiceConfig struct {
	// ArtifactsDir is watched for new similarity artifacts.
	ArtifactsDir string

	// CatalogPath is watched through its parent directory so atomic
	// renames over the file are seen.
	CatalogPath string

	// Watch enables the fsnotify watcher. Manual triggers work either way.
	Watch bool

	// Debounce coalesces bursts of events into one reload.
	// Default: 2s
	Debounce time.Duration
}

// ReloadService republishes the recommendation bundle when its inputs
// change. A failed reload is logged and counted; the previous bundle keeps
// serving. A batch that has not fully landed is not a failure; the next
// artifact event retries.
type ReloadService struct {
	loader    BundleLoader
	publisher BundlePublisher
	config    ReloadServiceConfig
	logger    zerolog.Logger
	trigger   chan struct{}
	name      string

	reloads  atomic.Int64
	failures atomic.Int64
}

// NewReloadService creates a reload service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(loader BundleLoader, publisher BundlePublisher, cfg ReloadServiceConfig, logger zerolog.Logger) *ReloadService {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	return &ReloadService{
		loader:    loader,
		publisher: publisher,
		config:    cfg,
		logger:    logger.With().Str("service", "bundle-reload").Logger(),
		trigger:   make(chan struct{}, 1),
		name:      "bundle-reload",
	}
}

// Trigger requests a reload without waiting for it. Requests made while
// one is pending are merged.
func (s *ReloadService) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Reload loads a new bundle and publishes it.
func (s *ReloadService) Reload(ctx context.Context) error {
	start := time.Now()
	b, err := s.loader(ctx)
	metrics.RecordBundleReload(time.Since(start), err)
	if errors.Is(err, similarity.ErrBatchMismatch) {
		s.logger.Info().Err(err).Msg("artifact batch incomplete; keeping previous bundle")
		return fmt.Errorf("reload bundle: %w", err)
	}
	if err != nil {
		s.failures.Add(1)
		s.logger.Error().Err(err).
			Dur("duration", time.Since(start)).
			Msg("bundle reload failed; keeping previous bundle")
		return fmt.Errorf("reload bundle: %w", err)
	}

	prev := s.publisher.Swap(b)
	s.reloads.Add(1)

	event := s.logger.Info().
		Str(logging.FieldBundleVersion, b.Version).
		Dur("duration", time.Since(start))
	if prev != nil && prev.Version == b.Version {
		event = event.Bool("unchanged", true)
	}
	event.Msg("bundle reloaded")
	return nil
}

// Reloads returns the number of successful reloads.
func (s *ReloadService) Reloads() int64 {
	return s.reloads.Load()
}

// Failures returns the number of failed reloads, not counting waits for an
// incomplete artifact batch.
func (s *ReloadService) Failures() int64 {
	return s.failures.Load()
}

// Serve implements suture.Service.
func (s *ReloadService) Serve(ctx context.Context) error {
	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)

	if s.config.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		for _, dir := range s.watchDirs() {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
		}
		events, errs = watcher.Events, watcher.Errors

		s.logger.Info().
			Strs("dirs", s.watchDirs()).
			Dur("debounce", s.config.Debounce).
			Msg("watching bundle inputs")
	}

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if !s.relevant(ev) {
				continue
			}
			s.logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("bundle input changed")
			if timer == nil {
				timer = time.NewTimer(s.config.Debounce)
			} else {
				timer.Reset(s.config.Debounce)
			}
			timerC = timer.C

		case err, ok := <-errs:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			s.logger.Warn().Err(err).Msg("watcher error")

		case <-s.trigger:
			_ = s.Reload(ctx) //nolint:errcheck // logged and counted in Reload

		case <-timerC:
			timerC = nil
			_ = s.Reload(ctx) //nolint:errcheck // logged and counted in Reload
		}
	}
}

// watchDirs returns the distinct directories to watch.
func (s *ReloadService) watchDirs() []string {
	dirs := []string{filepath.Clean(s.config.ArtifactsDir)}
	if s.config.CatalogPath != "" {
		if d := filepath.Dir(filepath.Clean(s.config.CatalogPath)); d != dirs[0] {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// relevant reports whether ev touches the catalog file or an artifact.
func (s *ReloadService) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if s.config.CatalogPath != "" && name == filepath.Clean(s.config.CatalogPath) {
		return true
	}
	if filepath.Dir(name) != filepath.Clean(s.config.ArtifactsDir) {
		return false
	}
	_, _, ok := similarity.ParseArtifactName(filepath.Base(name))
	return ok
}

// String implements fmt.Stringer for supervisor logs.
func (s *ReloadService) String() string {
	return s.name
}
