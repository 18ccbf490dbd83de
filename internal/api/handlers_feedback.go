// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

import (
	"net/http"

	"github.com/tomtom215/homematch/internal/feedback"
	"github.com/tomtom215/homematch/internal/models"
)

// feedbackEnabled answers 404 FEATURE_DISABLED when no store is configured.
func (h *Handler) feedbackEnabled(w http.ResponseWriter) bool {
	if h.feedback == nil {
		respondError(w, http.StatusNotFound, ErrCodeFeatureDisabled, "Feedback is disabled", nil)
		return false
	}
	return true
}

// SubmitFeedback handles POST /api/v1/feedback.
//
// Body: {"name": "...", "feedback": "...", "rating": 1-5}
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if !h.feedbackEnabled(w) {
		return
	}

	var sub feedback.Submission
	if err := decodeJSONBody(r, &sub); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&sub); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	entry, err := h.feedback.Submit(r.Context(), sub)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data:   entry,
	})
}

// ListFeedback handles GET /api/v1/feedback?limit=. Entries are newest first.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	if !h.feedbackEnabled(w) {
		return
	}

	req := FeedbackListRequest{Limit: getIntParam(r, "limit", 20)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}
	limit := min(req.Limit, h.config.FeedbackListLimit)

	entries, err := h.feedback.List(r.Context(), limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	count := len(entries)
	respondSuccess(w, entries, models.Metadata{Count: &count})
}

// FeedbackStats handles GET /api/v1/feedback/stats.
func (h *Handler) FeedbackStats(w http.ResponseWriter, r *http.Request) {
	if !h.feedbackEnabled(w) {
		return
	}

	stats, err := h.feedback.Stats(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondSuccess(w, stats, models.Metadata{})
}
