// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/homematch/internal/middleware"
	"github.com/tomtom215/homematch/internal/models"
	"github.com/tomtom215/homematch/internal/recommend"
)

// HealthLive handles GET /api/v1/health/live. It always succeeds while
// the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, models.Metadata{})
}

// HealthReady handles GET /api/v1/health/ready: 200 once a bundle is
// loaded, 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	b := h.engine.Bundle()
	if b == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "No recommendation bundle loaded", nil)
		return
	}
	respondSuccess(w, map[string]string{
		"status":         "ready",
		"bundle_version": b.Version,
	}, models.Metadata{})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	health := models.HealthStatus{
		Status:  "loading",
		Version: h.config.Version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if b := h.engine.Bundle(); b != nil {
		loaded := b.LoadedAt
		health.Status = "healthy"
		health.BundleVersion = b.Version
		health.Items = b.Size()
		health.LoadedAt = &loaded
		for _, a := range b.Artifacts {
			health.Artifacts = append(health.Artifacts, models.Artifact{
				Facet:    string(a.Facet),
				Version:  a.Version,
				Rows:     a.Rows,
				Checksum: a.Checksum,
				Created:  a.CreatedAt,
			})
		}
	}

	respondSuccess(w, health, models.Metadata{})
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	Engine        recommend.Stats         `json:"engine"`
	Routes        []middleware.RouteStats  `json:"routes"`
	SlowRequests  []middleware.SlowRequest `json:"slow_requests"`
	UptimeSeconds float64                  `json:"uptime_seconds"`
}

// statsSlowRequests caps the slow requests listed by GET /api/v1/stats.
const statsSlowRequests = 20

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	resp := StatsResponse{
		Engine:        h.engine.Stats(),
		Routes:        []middleware.RouteStats{},
		SlowRequests:  []middleware.SlowRequest{},
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.perf != nil {
		resp.Routes = h.perf.Stats()
		resp.SlowRequests = h.perf.SlowRequests(statsSlowRequests)
	}
	respondSuccess(w, resp, models.Metadata{})
}
