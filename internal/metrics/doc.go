// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package metrics provides Prometheus metrics for the recommendation service.

All collectors are registered on the default registry through promauto and
exposed by the API server at /metrics.

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Recommendation Metrics:
  - recommend_requests_total: Requests by outcome (counter)
    Labels: mode, outcome (ok, not_found, invalid_mode, invalid_argument, ...)
  - recommend_duration_seconds: Latency of successful requests (histogram)
    Labels: mode
  - recommend_cache_hits_total / recommend_cache_misses_total (counters)

Bundle Metrics:
  - bundle_reloads_total: Load attempts (counter)
    Labels: outcome (success, error)
  - bundle_reload_duration_seconds: Load time (histogram)
  - bundle_items: N of the published bundle (gauge)
  - bundle_last_success_timestamp: Unix time of the last good load (gauge)

Other:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - feedback_submissions_total (labels: rating)
  - app_info, app_uptime_seconds

# Example Queries

Error ratio by mode:

	sum by (mode) (rate(recommend_requests_total{outcome!="ok"}[5m]))
	  / sum by (mode) (rate(recommend_requests_total[5m]))

p99 recommendation latency:

	histogram_quantile(0.99, rate(recommend_duration_seconds_bucket[5m]))
*/
package metrics
