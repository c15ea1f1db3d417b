// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/appranker/internal/catalog"
	"github.com/tomtom215/appranker/internal/recommend"
)

// ImportCatalog replaces the catalog with users and items in one
// transaction. Keys must already be dense and 1-based.
func (db *DB) ImportCatalog(ctx context.Context, users []recommend.User, items []recommend.Item) (err error) {
	start := time.Now()
	defer func() { observe("import", start, err) }()

	if _, err = catalog.NewMemoryStore(users, items); err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // rollback after failure is best-effort
		}
	}()

	for _, table := range []string{"installations", "user_regions", "item_regions", "item_locales", "item_categories", "items", "users"} {
		//nolint:gosec // table names are constants
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i := range items {
		if err = insertItem(ctx, tx, &items[i]); err != nil {
			return err
		}
	}
	for i := range users {
		if err = insertUser(ctx, tx, &users[i]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	db.logger.Info().
		Int("users", len(users)).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Catalog imported")
	return nil
}

func insertItem(ctx context.Context, tx *sql.Tx, it *recommend.Item) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO items (id, external_id, module) VALUES (?, ?, ?)`,
		it.Key, it.ExternalID, it.Module); err != nil {
		return fmt.Errorf("insert item %q: %w", it.ExternalID, err)
	}
	for pos, c := range it.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_categories (item_key, position, category) VALUES (?, ?, ?)`,
			it.Key, pos, c); err != nil {
			return fmt.Errorf("insert category of %q: %w", it.ExternalID, err)
		}
	}
	for _, l := range it.Locales {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_locales (item_key, locale) VALUES (?, ?)`, it.Key, l); err != nil {
			return fmt.Errorf("insert locale of %q: %w", it.ExternalID, err)
		}
	}
	for _, r := range it.Regions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_regions (item_key, region) VALUES (?, ?)`, it.Key, r); err != nil {
			return fmt.Errorf("insert region of %q: %w", it.ExternalID, err)
		}
	}
	return nil
}

func insertUser(ctx context.Context, tx *sql.Tx, u *recommend.User) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (id, external_id, locale) VALUES (?, ?, ?)`,
		u.Key, u.ExternalID, u.Locale); err != nil {
		return fmt.Errorf("insert user %q: %w", u.ExternalID, err)
	}
	for pos, r := range u.Regions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_regions (user_key, position, region) VALUES (?, ?, ?)`,
			u.Key, pos, r); err != nil {
			return fmt.Errorf("insert region of %q: %w", u.ExternalID, err)
		}
	}
	for pos, k := range u.InstalledApps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO installations (user_key, item_key, position) VALUES (?, ?, ?)`,
			u.Key, k, pos); err != nil {
			return fmt.Errorf("insert installation of %q: %w", u.ExternalID, err)
		}
	}
	return nil
}
