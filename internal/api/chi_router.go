// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handler and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	metrics       http.Handler
}

// NewRouter creates a router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(config),
		metrics:       promhttp.Handler(),
	}
}

// Setup builds the route tree:
//
//	GET /metrics               Prometheus exposition
//	GET /api/v1/health         catalog, breaker and uptime
//	GET /api/v1/health/live    liveness
//	GET /api/v1/health/ready   readiness
//	GET /api/v1/stats          controller counters and pipeline
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog())

	// scrapers are not rate limited
	r.Method(http.MethodGet, "/metrics", router.metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.CORS())
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/health", router.handler.Health)
		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)
		r.Get("/stats", router.handler.Stats)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	return r
}
