// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package main is the entry point for the Homematch server.

Homematch serves "similar property" recommendations from precomputed
society-by-society similarity matrices. Three facets (nearby locations,
facilities, property info) are loaded from versioned artifacts together
with the property catalog, and blended on request.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("homematch")
	├── DataSupervisor ("data-layer")
	│   └── Bundle reload service (fsnotify + SIGHUP)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog, bridged to slog for the supervisor
 3. DuckDB: in-memory instance used to read the catalog table
 4. Artifacts: latest similarity artifact per facet plus the catalog,
    validated together into a bundle. Startup fails on a dimension mismatch.
 5. Feedback: BadgerDB store (optional, FEEDBACK_ENABLED)
 6. HTTP: chi router with CORS, rate limiting and Prometheus metrics

# Signals

SIGINT and SIGTERM drain in-flight requests and stop the tree. SIGHUP
reloads the bundle without restarting; a failed reload keeps the
previous bundle serving.

# Configuration

Configuration is loaded with Koanf v2 (highest priority wins):
  - Environment variables (HTTP_PORT, ARTIFACTS_DIR, CATALOG_PATH, ...)
  - Config file (CONFIG_PATH or ./config.yaml)
  - Built-in defaults
*/
package main
