// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

package logging

// Field names shared across packages so log queries can rely on them.
const (
	FieldComponent     = "component"
	FieldBundleVersion = "bundle_version"
	FieldItems         = "items"
	FieldMode          = "mode"
	FieldSociety       = "society"
	FieldFacet         = "facet"
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
)
