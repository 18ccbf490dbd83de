// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package recommend

import (
	"errors"

	"github.com/tomtom215/homematch/internal/catalog"
	"github.com/tomtom215/homematch/internal/similarity"
)

var (
	// ErrInvalidMode is returned for a mode outside the four known names.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidArgument is returned for malformed request parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotReady is returned before the first bundle is published.
	ErrNotReady = errors.New("no recommendation bundle loaded")

	// ErrNotFound is returned when the reference name is not in the catalog.
	ErrNotFound = catalog.ErrNotFound

	// ErrMissingAttribute is returned when the catalog lacks a detail column.
	ErrMissingAttribute = catalog.ErrMissingAttribute

	// ErrIndexOutOfRange is returned for positions outside [0, N).
	ErrIndexOutOfRange = similarity.ErrIndexOutOfRange

	// ErrDimensionMismatch is returned when matrices and catalog disagree on N.
	ErrDimensionMismatch = similarity.ErrDimensionMismatch
)

// Outcome classifies err for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidMode):
		return "invalid_mode"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case errors.Is(err, ErrMissingAttribute):
		return "missing_attribute"
	case errors.Is(err, ErrIndexOutOfRange), errors.Is(err, catalog.ErrPositionOutOfRange):
		return "index_out_of_range"
	default:
		return "error"
	}
}
