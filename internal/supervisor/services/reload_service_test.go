// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/homematch/internal/recommend"
	"github.com/tomtom215/homematch/internal/similarity"
)

var _ suture.Service = (*ReloadService)(nil)

type fakePublisher struct {
	mu      sync.Mutex
	current *recommend.Bundle
	swaps   int
}

func (p *fakePublisher) Swap(b *recommend.Bundle) *recommend.Bundle {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.current
	p.current = b
	p.swaps++
	return prev
}

func (p *fakePublisher) swapCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.swaps
}

// countingLoader returns a fresh bundle per call, or err when set.
type countingLoader struct {
	calls atomic.Int32
	err   atomic.Value
}

func (l *countingLoader) load(context.Context) (*recommend.Bundle, error) {
	n := l.calls.Add(1)
	if err, ok := l.err.Load().(error); ok && err != nil {
		return nil, err
	}
	return &recommend.Bundle{Version: string(rune('a' + n))}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestReloadService_Reload(t *testing.T) {
	t.Parallel()

	loader := &countingLoader{}
	pub := &fakePublisher{}
	svc := NewReloadService(loader.load, pub, ReloadServiceConfig{ArtifactsDir: t.TempDir()}, zerolog.Nop())

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if pub.swapCount() != 1 || svc.Reloads() != 1 {
		t.Errorf("swaps = %d reloads = %d", pub.swapCount(), svc.Reloads())
	}

	loadErr := errors.New("checksum mismatch")
	loader.err.Store(loadErr)
	if err := svc.Reload(context.Background()); !errors.Is(err, loadErr) {
		t.Errorf("Reload() = %v, want wrapped load error", err)
	}
	if pub.swapCount() != 1 {
		t.Error("failed reload must not publish")
	}
	if svc.Failures() != 1 {
		t.Errorf("Failures() = %d", svc.Failures())
	}
}

func TestReloadService_IncompleteBatchIsNotAFailure(t *testing.T) {
	t.Parallel()

	loader := &countingLoader{}
	pub := &fakePublisher{}
	svc := NewReloadService(loader.load, pub, ReloadServiceConfig{ArtifactsDir: t.TempDir()}, zerolog.Nop())

	loader.err.Store(fmt.Errorf("load similarity matrices: %w", similarity.ErrBatchMismatch))
	if err := svc.Reload(context.Background()); !errors.Is(err, similarity.ErrBatchMismatch) {
		t.Fatalf("Reload() = %v, want ErrBatchMismatch", err)
	}
	if pub.swapCount() != 0 {
		t.Error("an incomplete batch must not publish")
	}
	if svc.Failures() != 0 {
		t.Errorf("Failures() = %d, want 0", svc.Failures())
	}
}

func TestReloadService_Trigger(t *testing.T) {
	t.Parallel()

	loader := &countingLoader{}
	pub := &fakePublisher{}
	svc := NewReloadService(loader.load, pub, ReloadServiceConfig{ArtifactsDir: t.TempDir()}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	svc.Trigger()
	waitFor(t, func() bool { return pub.swapCount() == 1 })

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
}

func TestReloadService_WatchDebounces(t *testing.T) {
	t.Parallel()

	artifacts := t.TempDir()
	catalogDir := t.TempDir()
	catalogPath := filepath.Join(catalogDir, "catalog.csv")

	loader := &countingLoader{}
	pub := &fakePublisher{}
	svc := NewReloadService(loader.load, pub, ReloadServiceConfig{
		ArtifactsDir: artifacts,
		CatalogPath:  catalogPath,
		Watch:        true,
		Debounce:     100 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	for _, f := range similarity.Facets() {
		path := filepath.Join(artifacts, similarity.ArtifactName(f, 2))
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, func() bool { return pub.swapCount() >= 1 })
	time.Sleep(300 * time.Millisecond)
	if got := pub.swapCount(); got != 1 {
		t.Errorf("swaps after burst = %d, want 1", got)
	}

	if err := os.WriteFile(catalogPath, []byte("society_name\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return pub.swapCount() == 2 })
}

func TestReloadService_Relevant(t *testing.T) {
	t.Parallel()

	svc := NewReloadService(nil, nil, ReloadServiceConfig{
		ArtifactsDir: "/data/artifacts",
		CatalogPath:  "/data/catalog.csv",
	}, zerolog.Nop())

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"new artifact", fsnotify.Event{Name: "/data/artifacts/nearby_v3.sim.gz", Op: fsnotify.Create}, true},
		{"artifact write", fsnotify.Event{Name: "/data/artifacts/facility_v1.sim.gz", Op: fsnotify.Write}, true},
		{"catalog rename", fsnotify.Event{Name: "/data/catalog.csv", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/data/artifacts/nearby_v3.sim.gz", Op: fsnotify.Chmod}, false},
		{"temp file", fsnotify.Event{Name: "/data/artifacts/nearby_v3.sim.gz.tmp", Op: fsnotify.Create}, false},
		{"unknown facet", fsnotify.Event{Name: "/data/artifacts/price_v1.sim.gz", Op: fsnotify.Create}, false},
		{"other file next to catalog", fsnotify.Event{Name: "/data/notes.txt", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := svc.relevant(tt.ev); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestReloadService_WatchDirs(t *testing.T) {
	t.Parallel()

	same := NewReloadService(nil, nil, ReloadServiceConfig{
		ArtifactsDir: "/data",
		CatalogPath:  "/data/catalog.csv",
	}, zerolog.Nop())
	if dirs := same.watchDirs(); len(dirs) != 1 {
		t.Errorf("watchDirs = %v, want one entry", dirs)
	}

	split := NewReloadService(nil, nil, ReloadServiceConfig{
		ArtifactsDir: "/data/artifacts",
		CatalogPath:  "/srv/catalog.parquet",
	}, zerolog.Nop())
	if dirs := split.watchDirs(); len(dirs) != 2 || dirs[1] != "/srv" {
		t.Errorf("watchDirs = %v", dirs)
	}
}

func TestReloadService_MissingDir(t *testing.T) {
	t.Parallel()

	svc := NewReloadService((&countingLoader{}).load, &fakePublisher{}, ReloadServiceConfig{
		ArtifactsDir: filepath.Join(t.TempDir(), "absent"),
		Watch:        true,
	}, zerolog.Nop())

	if err := svc.Serve(context.Background()); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
