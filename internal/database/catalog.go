// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/appranker/internal/catalog"
	"github.com/tomtom215/appranker/internal/recommend"
)

// placeholders returns "?, ?, ..." and the matching args for keys.
func placeholders(keys []int) (string, []any) {
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		marks[i] = "?"
		args[i] = k
	}
	return strings.Join(marks, ", "), args
}

// queryInts runs a single-column integer query.
func (db *DB) queryInts(ctx context.Context, query string, args ...any) ([]int, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

// queryStrings runs a single-column string query.
func (db *DB) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(rows, &db.logger, "rows")

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

func (db *DB) count(ctx context.Context, operation, table string) (n int, err error) {
	start := time.Now()
	defer func() { observe(operation, start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	//nolint:gosec // table is a package constant
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// UserCount implements catalog.Store.
func (db *DB) UserCount(ctx context.Context) (int, error) {
	return db.count(ctx, "user_count", "users")
}

// ItemCount implements catalog.Store.
func (db *DB) ItemCount(ctx context.Context) (int, error) {
	return db.count(ctx, "item_count", "items")
}

// User implements catalog.Store.
func (db *DB) User(ctx context.Context, externalID string) (u *recommend.User, err error) {
	start := time.Now()
	defer func() { observe("user", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	user := recommend.User{ExternalID: externalID}
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, locale FROM users WHERE external_id = ?`, externalID,
	).Scan(&user.Key, &user.Locale)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", externalID, catalog.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	user.Regions, err = db.queryStrings(ctx,
		`SELECT region FROM user_regions WHERE user_key = ? ORDER BY position`, user.Key)
	if err != nil {
		return nil, fmt.Errorf("query user regions: %w", err)
	}

	user.InstalledApps, err = db.queryInts(ctx,
		`SELECT item_key FROM installations WHERE user_key = ? ORDER BY position`, user.Key)
	if err != nil {
		return nil, fmt.Errorf("query installed apps: %w", err)
	}

	return &user, nil
}

// LookupItemsByKeys implements catalog.Store.
func (db *DB) LookupItemsByKeys(ctx context.Context, keys []int) (out map[int]string, err error) {
	out = make(map[int]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	start := time.Now()
	defer func() { observe("lookup_items", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	marks, args := placeholders(keys)
	//nolint:gosec // only placeholders are interpolated
	rows, err := db.conn.QueryContext(ctx, `SELECT id, external_id FROM items WHERE id IN (`+marks+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	for rows.Next() {
		var (
			key int
			id  string
		)
		if err := rows.Scan(&key, &id); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out[key] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

// ItemsWithoutLocale implements catalog.Store.
func (db *DB) ItemsWithoutLocale(ctx context.Context, locale string) (keys []int, err error) {
	start := time.Now()
	defer func() { observe("items_without_locale", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	keys, err = db.queryInts(ctx, `
		SELECT id FROM items
		WHERE id NOT IN (SELECT item_key FROM item_locales WHERE locale = ?)
		ORDER BY id`, locale)
	if err != nil {
		return nil, fmt.Errorf("query items without locale: %w", err)
	}
	return keys, nil
}

// ItemsByRegion implements catalog.Store.
func (db *DB) ItemsByRegion(ctx context.Context, module, region string) (keys []int, err error) {
	start := time.Now()
	defer func() { observe("items_by_region", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	keys, err = db.queryInts(ctx, `
		SELECT DISTINCT i.id FROM items i
		JOIN item_regions r ON r.item_key = i.id
		WHERE (? = '' OR i.module = ?)
		  AND r.region IN (?, ?)
		ORDER BY i.id`, module, module, region, catalog.Worldwide)
	if err != nil {
		return nil, fmt.Errorf("query items by region: %w", err)
	}
	return keys, nil
}

// UserRegions implements catalog.Store.
func (db *DB) UserRegions(ctx context.Context, externalID string) (regions []string, err error) {
	start := time.Now()
	defer func() { observe("user_regions", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var key int
	err = db.conn.QueryRowContext(ctx, `SELECT id FROM users WHERE external_id = ?`, externalID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", externalID, catalog.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	regions, err = db.queryStrings(ctx,
		`SELECT region FROM user_regions WHERE user_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("query user regions: %w", err)
	}
	return regions, nil
}

// ItemCategories implements catalog.Store.
func (db *DB) ItemCategories(ctx context.Context, keys []int) (out map[int][]string, err error) {
	out = make(map[int][]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	start := time.Now()
	defer func() { observe("item_categories", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	marks, args := placeholders(keys)
	//nolint:gosec // only placeholders are interpolated
	rows, err := db.conn.QueryContext(ctx, `
		SELECT item_key, category FROM item_categories
		WHERE item_key IN (`+marks+`)
		ORDER BY item_key, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("query item categories: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	for rows.Next() {
		var (
			key      int
			category string
		)
		if err := rows.Scan(&key, &category); err != nil {
			return nil, fmt.Errorf("scan item category: %w", err)
		}
		out[key] = append(out[key], category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item categories: %w", err)
	}
	return out, nil
}

// Interactions implements catalog.Store.
func (db *DB) Interactions(ctx context.Context) (out []recommend.Interaction, err error) {
	start := time.Now()
	defer func() { observe("interactions", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_key, item_key FROM installations ORDER BY user_key, position`)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "rows")

	for rows.Next() {
		in := recommend.Interaction{Confidence: 1}
		if err := rows.Scan(&in.UserKey, &in.ItemKey); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return out, nil
}

var _ catalog.Store = (*DB)(nil)
