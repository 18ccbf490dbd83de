// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/homematch/internal/catalog"
	"github.com/tomtom215/homematch/internal/middleware"
	"github.com/tomtom215/homematch/internal/models"
	"github.com/tomtom215/homematch/internal/recommend"
)

// defaultMode is used when a request omits mode.
const defaultMode = recommend.ModeCombined

// Recommendations handles GET /api/v1/recommendations.
//
// Query parameters:
//   - society: reference society name, case-insensitive (required)
//   - mode: nearby_locations, facility_based, property_info_based or auto (default auto)
//   - n: number of results (default from config)
//   - normalize: none, minmax or weight_sum (default from config)
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// An unknown mode is reported before anything else about the request.
	mode := q.Get("mode")
	if mode == "" {
		mode = defaultMode.String()
	}
	if _, err := recommend.ParseMode(mode); err != nil {
		respondDomainError(w, err)
		return
	}

	req := RecommendationsRequest{
		Society:   q.Get("society"),
		Mode:      mode,
		Normalize: q.Get("normalize"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	n, present, err := parseStrictIntParam(r, "n")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error(), nil)
		return
	}
	if present && n <= 0 {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, "n must be a positive integer", nil)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		Name:          req.Society,
		Mode:          req.Mode,
		N:             n,
		Normalization: req.Normalize,
		RequestID:     middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, resp, models.Metadata{
		QueryTimeMS: resp.Metadata.LatencyMS,
		Cached:      resp.Metadata.CacheHit,
	})
}

// Properties handles GET /api/v1/properties. Names are returned in
// catalog order; q filters by case-insensitive substring.
func (h *Handler) Properties(w http.ResponseWriter, r *http.Request) {
	req := PropertiesRequest{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit: getIntParam(r, "limit", h.config.PropertiesDefaultLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	b := h.engine.Bundle()
	if b == nil {
		respondDomainError(w, recommend.ErrNotReady)
		return
	}

	needle := strings.ToLower(req.Query)
	items := make([]models.PropertyItem, 0, min(req.Limit, b.Size()))
	for _, name := range b.Catalog.Names() {
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		items = append(items, models.PropertyItem{
			Name:        name,
			DisplayName: catalog.DisplayName(name),
		})
		if len(items) == req.Limit {
			break
		}
	}

	count := len(items)
	respondSuccess(w, items, models.Metadata{Count: &count})
}

// Modes handles GET /api/v1/modes.
func (h *Handler) Modes(w http.ResponseWriter, _ *http.Request) {
	var incomplete map[recommend.Mode][]string
	if b := h.engine.Bundle(); b != nil {
		incomplete = b.IncompleteModes()
	}

	modes := recommend.Modes()
	out := make([]models.ModeInfo, len(modes))
	for i, m := range modes {
		out[i] = models.ModeInfo{
			Name:    m.String(),
			Label:   m.Label(),
			Columns: []string(m.Schema()),
			Missing: incomplete[m],
		}
	}

	respondSuccess(w, out, models.Metadata{})
}
