// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package api

// Request structs are validated with go-playground/validator tags before
// processing. Field names in validation messages come from the query or
// json tags.

// RecommendationsRequest is GET /api/v1/recommendations. Mode is checked
// by the engine so an unknown mode reports INVALID_MODE.
type RecommendationsRequest struct {
	Society   string `query:"society" validate:"required,notblank,max=200"`
	Mode      string `query:"mode" validate:"max=64"`
	Normalize string `query:"normalize" validate:"max=32"`
}

// PropertiesRequest is GET /api/v1/properties.
type PropertiesRequest struct {
	Query string `query:"q" validate:"max=200"`
	Limit int    `query:"limit" validate:"min=1,max=10000"`
}

// FeedbackListRequest is GET /api/v1/feedback.
type FeedbackListRequest struct {
	Limit int `query:"limit" validate:"min=1"`
}
