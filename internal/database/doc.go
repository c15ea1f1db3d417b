// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package database provides the DuckDB-backed catalog store.
//
// # Overview
//
// DB implements catalog.Store on top of an embedded DuckDB database
// (github.com/duckdb/duckdb-go/v2). It holds users, items and installs and
// answers the read-only queries of the ranking pipeline: counts, installed
// listings, locale and region membership, categories and the interaction
// set used for training.
//
// # Files
//
//   - database.go: connection lifecycle and pool configuration
//   - schema.go: table creation
//   - catalog.go: catalog.Store queries
//   - import.go: transactional catalog replacement
//
// # Configuration
//
// An empty path or ":memory:" opens an in-memory database, which is what the
// tests use. Extension auto-install is disabled so that opening never
// reaches the network.
//
// # Observability
//
// Every query records catalog_query_duration_seconds and, on failure,
// catalog_query_errors_total.
package database
