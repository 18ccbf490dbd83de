// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/homematch/internal/catalog"
	"github.com/tomtom215/homematch/internal/feedback"
	"github.com/tomtom215/homematch/internal/recommend"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInvalidMode        = "INVALID_MODE"
	ErrCodeInvalidArgument    = "INVALID_ARGUMENT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeMissingAttribute   = "MISSING_ATTRIBUTE"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeFeatureDisabled    = "FEATURE_DISABLED"
)

// errorResponse is how one error class is rendered.
type errorResponse struct {
	status  int
	code    string
	message string // empty means err.Error()
}

// classifyError maps domain sentinels to HTTP responses. Server-side
// classes use a fixed message so internals do not leak to clients.
func classifyError(err error) errorResponse {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		return errorResponse{http.StatusNotFound, ErrCodeNotFound, "Item not recognized"}
	case errors.Is(err, recommend.ErrInvalidMode):
		return errorResponse{http.StatusBadRequest, ErrCodeInvalidMode, ""}
	case errors.Is(err, recommend.ErrInvalidArgument):
		return errorResponse{http.StatusBadRequest, ErrCodeInvalidArgument, ""}
	case errors.Is(err, feedback.ErrInvalidRating), errors.Is(err, feedback.ErrEmptyFeedback):
		return errorResponse{http.StatusBadRequest, ErrCodeValidation, ""}
	case errors.Is(err, recommend.ErrNotReady):
		return errorResponse{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendations are not available yet"}
	case errors.Is(err, feedback.ErrClosed):
		return errorResponse{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Feedback store is unavailable"}
	case errors.Is(err, recommend.ErrMissingAttribute):
		return errorResponse{http.StatusInternalServerError, ErrCodeMissingAttribute, "Catalog is missing a required attribute"}
	case errors.Is(err, recommend.ErrIndexOutOfRange), errors.Is(err, catalog.ErrPositionOutOfRange):
		return errorResponse{http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errorResponse{http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out"}
	default:
		return errorResponse{http.StatusInternalServerError, ErrCodeInternalError, "Internal server error"}
	}
}

// respondDomainError renders err using classifyError.
func respondDomainError(w http.ResponseWriter, err error) {
	er := classifyError(err)
	msg := er.message
	if msg == "" {
		msg = err.Error()
	}
	respondError(w, er.status, er.code, msg, err)
}
