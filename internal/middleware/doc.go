// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package middleware provides HTTP middleware for the API server.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and seeds the logging
    context with request and correlation IDs
  - PrometheusMetrics: request counters and latency histograms labelled by
    chi route pattern
  - PerformanceMonitor: sliding window of recent requests with per-route
    latency percentiles, served at /api/v1/stats

All middleware has the func(http.Handler) http.Handler shape and is
mounted with chi's Router.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

Route patterns are only known after chi has routed the request, so the
metrics middleware reads the pattern once the handler returns.
*/
package middleware
