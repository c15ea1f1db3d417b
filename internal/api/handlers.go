// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/appranker/internal/recommend"
)

// Handler serves the health and stats endpoints.
type Handler struct {
	catalog   Catalog
	stats     StatsSource
	breaker   BreakerReporter
	version   string
	startTime time.Time
}

// NewHandler creates a handler. breaker may be nil when the provider has no
// training breaker.
func NewHandler(catalog Catalog, stats StatsSource, breaker BreakerReporter, version string) (*Handler, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if stats == nil {
		return nil, ErrStatsRequired
	}
	return &Handler{
		catalog:   catalog,
		stats:     stats,
		breaker:   breaker,
		version:   version,
		startTime: time.Now(),
	}, nil
}

// Stats is the body of GET /api/v1/stats.
type Stats struct {
	Controller string            `json:"controller"`
	Metrics    recommend.Metrics `json:"metrics"`
	Filters    []string          `json:"filters"`
	Rerankers  []string          `json:"rerankers"`
}

// Stats reports controller counters and the registered pipeline.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := Stats{
		Controller: h.stats.Name(),
		Metrics:    h.stats.Metrics(),
		Filters:    []string{},
		Rerankers:  []string{},
	}
	for _, f := range h.stats.Filters() {
		stats.Filters = append(stats.Filters, f.Key().String())
	}
	for _, rr := range h.stats.Rerankers() {
		stats.Rerankers = append(stats.Rerankers, rr.Key().String())
	}
	respondJSON(w, r, http.StatusOK, stats)
}
