// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the catalog tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the catalog schema.
//
// Keys are dense and 1-based; installations.position preserves the user's
// installed-items listing order and user_regions.position the order of the
// user's region tags. Key density and uniqueness are validated on
// import rather than by table constraints, so that a catalog can be replaced
// inside one transaction.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER NOT NULL,
			external_id VARCHAR NOT NULL,
			locale VARCHAR NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS user_regions (
			user_key INTEGER NOT NULL,
			position INTEGER NOT NULL,
			region VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER NOT NULL,
			external_id VARCHAR NOT NULL,
			module VARCHAR NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS item_categories (
			item_key INTEGER NOT NULL,
			position INTEGER NOT NULL,
			category VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS item_locales (
			item_key INTEGER NOT NULL,
			locale VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS item_regions (
			item_key INTEGER NOT NULL,
			region VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS installations (
			user_key INTEGER NOT NULL,
			item_key INTEGER NOT NULL,
			position INTEGER NOT NULL
		)`,
	}
}
