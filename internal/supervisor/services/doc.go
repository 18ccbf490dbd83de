// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package services provides suture.Service wrappers for Homematch components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer for supervisor log lines.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe pattern to Serve

Bundle Reload (ReloadService):
  - Watches the artifact directory and catalog file with fsnotify
  - Debounces bursts of file events into a single reload
  - Builds a complete new bundle and publishes it with one pointer swap
  - Keeps serving the previous bundle when a reload fails
  - Accepts manual triggers (SIGHUP in cmd/server)
*/
package services
