// Homematch - Property Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homematch

/*
Package supervisor runs the server's long-lived services under a
thejerf/suture/v4 supervisor tree.

The tree has two layers:

  - data: the bundle reload watcher
  - api: the HTTP server

A failing service is restarted with backoff by its layer supervisor.
Supervisor events are logged through sutureslog with an slog.Logger backed
by zerolog (see logging.NewSlogLogger).

Example:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(reloadSvc)
	tree.AddAPIService(httpSvc)
	return tree.Serve(ctx)
*/
package supervisor
