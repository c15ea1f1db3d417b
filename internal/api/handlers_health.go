// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/appranker/internal/recommend"
)

// healthCheckTimeout bounds the catalog probes of one health request.
const healthCheckTimeout = 2 * time.Second

// Catalog is the part of the catalog store the health endpoints probe.
// Satisfied by *database.DB.
type Catalog interface {
	Ping(ctx context.Context) error
	UserCount(ctx context.Context) (int, error)
	ItemCount(ctx context.Context) (int, error)
}

// StatsSource reports recommendation activity.
// Satisfied by *recommend.Controller.
type StatsSource interface {
	Name() string
	Metrics() recommend.Metrics
	Filters() []recommend.Filter
	Rerankers() []recommend.Reranker
}

// BreakerReporter is implemented by providers that guard training with a
// circuit breaker.
type BreakerReporter interface {
	BreakerState() string
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	Users             int     `json:"users"`
	Items             int     `json:"items"`
	TrainingBreaker   string  `json:"training_breaker,omitempty"`
	Uptime            float64 `json:"uptime_seconds"`
}

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady reports whether recommendations can be served: the catalog
// answers and training is not tripped.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.catalog.Ping(ctx); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "catalog database is not reachable")
		return
	}
	if h.breakerState() == "open" {
		respondError(w, r, http.StatusServiceUnavailable, "TRAINING_UNAVAILABLE", "training circuit breaker is open")
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// Health reports catalog connectivity and size, breaker state and uptime.
// It always answers 200; Status is "degraded" when a check fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	health := HealthStatus{
		Status:          "healthy",
		Version:         h.version,
		TrainingBreaker: h.breakerState(),
		Uptime:          time.Since(h.startTime).Seconds(),
	}

	health.DatabaseConnected = h.catalog.Ping(ctx) == nil
	if health.DatabaseConnected {
		var errU, errI error
		health.Users, errU = h.catalog.UserCount(ctx)
		health.Items, errI = h.catalog.ItemCount(ctx)
		if errU != nil || errI != nil {
			health.Status = "degraded"
		}
	} else {
		health.Status = "degraded"
	}
	if health.TrainingBreaker == "open" {
		health.Status = "degraded"
	}

	respondJSON(w, r, http.StatusOK, health)
}

func (h *Handler) breakerState() string {
	if h.breaker == nil {
		return ""
	}
	return h.breaker.BreakerState()
}
