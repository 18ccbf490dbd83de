// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/homematch/internal/feedback"
	"github.com/tomtom215/homematch/internal/middleware"
	"github.com/tomtom215/homematch/internal/recommend"
)

// FeedbackStore is the subset of feedback.Store used by the handlers.
type FeedbackStore interface {
	Submit(ctx context.Context, sub feedback.Submission) (*feedback.Entry, error)
	List(ctx context.Context, limit int) ([]feedback.Entry, error)
	Stats(ctx context.Context) (*feedback.Stats, error)
}

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	// Version is reported by the health endpoint.
	Version string

	// FeedbackListLimit caps GET /api/v1/feedback?limit=.
	FeedbackListLimit int

	// PropertiesDefaultLimit is used when /api/v1/properties has no limit.
	PropertiesDefaultLimit int
}

// Handler serves every API endpoint.
type Handler struct {
	engine    *recommend.Engine
	feedback  FeedbackStore
	perf      *middleware.PerformanceMonitor
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler. fb may be nil when feedback is disabled,
// and perf may be nil when request statistics are not collected.
func NewHandler(engine *recommend.Engine, fb FeedbackStore, perf *middleware.PerformanceMonitor, cfg HandlerConfig) *Handler {
	if cfg.FeedbackListLimit <= 0 {
		cfg.FeedbackListLimit = 100
	}
	if cfg.PropertiesDefaultLimit <= 0 {
		cfg.PropertiesDefaultLimit = 100
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		engine:    engine,
		feedback:  fb,
		perf:      perf,
		config:    cfg,
		startTime: time.Now(),
	}
}
