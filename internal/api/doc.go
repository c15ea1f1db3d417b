// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

/*
Package api serves the operational HTTP surface of appranker: Prometheus
metrics, health probes and recommendation statistics.

Recommendations themselves are not served over HTTP; they are requested
in-process through recommend.Controller or from the CLI.

# Routes

	GET /metrics               Prometheus exposition (promhttp)
	GET /api/v1/health         catalog connectivity, catalog size, breaker
	GET /api/v1/health/live    200 while the process runs
	GET /api/v1/health/ready   503 when the catalog is down or training is tripped
	GET /api/v1/stats          controller counters and registered transforms

Every JSON body uses the APIResponse envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","request_id":"..."}}

# Middleware

The chain is RequestIDWithLogging, chi RealIP, chi Recoverer and AccessLog
on every route. /api/v1 adds go-chi/cors and a per-IP go-chi/httprate
limiter; both are configured from the metrics config section.
*/
package api
