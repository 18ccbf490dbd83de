// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package api provides the HTTP interface of the Homematch server.

Routing uses go-chi/chi with production-hardened middleware from the chi
ecosystem (cors, httprate, Compress, Recoverer, RealIP, Timeout) plus the
request ID, Prometheus and performance middleware from internal/middleware.

Endpoints:

	GET  /api/v1/recommendations?society=&mode=&n=&normalize=
	GET  /api/v1/properties?q=&limit=
	GET  /api/v1/modes
	POST /api/v1/feedback
	GET  /api/v1/feedback?limit=
	GET  /api/v1/feedback/stats
	GET  /api/v1/stats
	GET  /api/v1/health
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /metrics

Every JSON body uses the models.APIResponse envelope. Domain errors are
mapped to status codes and machine-readable codes in errors.go.
*/
package api
