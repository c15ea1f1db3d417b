// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

// Package catalog defines the read-only view of users and apps that the
// ranking pipeline queries, plus an in-memory implementation.
//
// Keys are 1-based and dense: users and items are numbered 1..count without
// gaps, so key - 1 indexes factor matrix columns and score vectors.
package catalog

import (
	"context"
	"errors"

	"github.com/tomtom215/appranker/internal/recommend"
)

// Worldwide is the region every user belongs to.
const Worldwide = "worldwide"

var (
	// ErrUserNotFound is returned when no user has the requested id.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidKey is returned when catalog keys are not dense.
	ErrInvalidKey = errors.New("invalid catalog key")
)

// Store is the catalog query surface.
type Store interface {
	// UserCount returns the number of users (the highest user key).
	UserCount(ctx context.Context) (int, error)

	// ItemCount returns the number of items (the highest item key).
	ItemCount(ctx context.Context) (int, error)

	// User returns the user with the given external id, including the
	// installed-items listing in listing order.
	User(ctx context.Context, externalID string) (*recommend.User, error)

	// LookupItemsByKeys maps item keys to external ids. Unknown keys are
	// absent from the result.
	LookupItemsByKeys(ctx context.Context, keys []int) (map[int]string, error)

	// ItemsWithoutLocale returns the keys of items that do not support
	// locale, ascending.
	ItemsWithoutLocale(ctx context.Context, locale string) ([]int, error)

	// ItemsByRegion returns the keys of items of module that are available
	// in region or worldwide, ascending. An empty module matches all items.
	ItemsByRegion(ctx context.Context, module, region string) ([]int, error)

	// UserRegions returns the regions of the user with the given external
	// id. Worldwide is implicit and not listed.
	UserRegions(ctx context.Context, externalID string) ([]string, error)

	// ItemCategories returns the categories of each requested item.
	ItemCategories(ctx context.Context, keys []int) (map[int][]string, error)

	// Interactions returns every install as an implicit-feedback event.
	Interactions(ctx context.Context) ([]recommend.Interaction, error)
}
