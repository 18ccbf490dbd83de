// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"mode": "nearby_locations", "recommendations": [...]},
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "query_time_ms": 2,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "Item not recognized"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "VALIDATION_ERROR", "INVALID_MODE")
//   - Message: Human-readable error message
//   - Details: Additional context (field names, constraints, etc.)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status        string     `json:"status"` // healthy or loading
	Version       string     `json:"version"`
	BundleVersion string     `json:"bundle_version,omitempty"`
	Items         int        `json:"items"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
	Artifacts     []Artifact `json:"artifacts,omitempty"`
	Uptime        float64    `json:"uptime_seconds"`
}

// Artifact summarizes one loaded similarity artifact.
type Artifact struct {
	Facet    string    `json:"facet"`
	Version  int       `json:"version"`
	Rows     int       `json:"rows"`
	Checksum string    `json:"checksum"`
	Created  time.Time `json:"created_at"`
}

// ModeInfo describes one recommendation mode.
type ModeInfo struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Columns []string `json:"columns"`
	// Missing lists schema columns absent from the loaded catalog.
	Missing []string `json:"missing,omitempty"`
}

// PropertyItem is one selectable society name.
type PropertyItem struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}
