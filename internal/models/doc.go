// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package models defines the HTTP data transfer objects shared by the API
handlers and the operator CLI.

Key Components:

  - APIResponse: Standard response envelope for every endpoint
  - Metadata: Timing and cache information attached to each response
  - APIError: Machine-readable error code with message and details
  - HealthStatus: Bundle state reported by /api/v1/health
  - ModeInfo, PropertyItem: Listings for the selection endpoints

Recommendation payloads themselves are recommend.Response values; models
only wraps them.
*/
package models
