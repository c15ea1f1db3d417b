// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

/*
Package services provides suture.Service wrappers for appranker components.

Each wrapper translates a component lifecycle into suture's
Serve(ctx) error pattern and implements fmt.Stringer so supervisor events
name the service.

# Available Services

TrainService:
  - Calls Retrainer.Retrain (factors.TrainedProvider) on startup and on a
    fixed interval
  - Each run gets its own timeout and correlation id
  - A failed run is logged and retried on the next tick

HTTPServerService:
  - Wraps *http.Server (see NewMetricsServer) with graceful shutdown
  - Converts ListenAndServe to Serve

# Return Values

	ctx.Err()  shutdown requested
	error      the component failed; suture restarts it
*/
package services
