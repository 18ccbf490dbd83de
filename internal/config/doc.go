// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package config loads and validates service configuration.

# Configuration Sources

Settings are layered with koanf, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths that exists
 3. Environment variables, through an explicit mapping table

Unmapped environment variables are ignored. CORS_ORIGINS accepts a
comma-separated list.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 0.0.0.0:8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT
  - HTTP_REQUEST_TIMEOUT (default 15s), HTTP_SHUTDOWN_TIMEOUT (default 10s)
  - HTTP_SLOW_REQUEST_THRESHOLD (default 500ms), HTTP_STATS_WINDOW (default 1000)
  - ENVIRONMENT: development, staging or production

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Artifacts:
  - ARTIFACTS_DIR (default /data/artifacts)
  - CATALOG_PATH (default /data/catalog.csv)
  - ARTIFACTS_WATCH (default true), ARTIFACTS_DEBOUNCE (default 2s)

Recommendation:
  - RECOMMEND_WEIGHT_PROPERTY_INFO (0.8), RECOMMEND_WEIGHT_FACILITY (0.6),
    RECOMMEND_WEIGHT_NEARBY (1.0)
  - RECOMMEND_NORMALIZATION: none, minmax or weight_sum
  - RECOMMEND_DEFAULT_N (5), RECOMMEND_MAX_N (100)
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_SIZE, RECOMMEND_CACHE_TTL

Feedback:
  - FEEDBACK_ENABLED, FEEDBACK_PATH, FEEDBACK_MAX_LIST_LIMIT

Security:
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

# Example YAML

	server:
	  port: 8080
	artifacts:
	  dir: /srv/homematch/artifacts
	  catalog_path: /srv/homematch/catalog.parquet
	recommend:
	  weights:
	    property_info: 0.8
	    facility: 0.6
	    nearby: 1.0
	  normalization: none
*/
package config
