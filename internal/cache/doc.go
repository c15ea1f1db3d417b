// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

/*
Package cache provides the process-wide key/value cache shared by the
recommendation controller and its filters and rerankers.

# Overview

Two implementations satisfy Cacher:
  - Cache: unbounded map with per-entry TTL and a background sweep
  - LRUCache: bounded recency list with lazy TTL expiration

Values are stored as interface{}. Callers own type assertions and must treat
a failed assertion as a miss.

# Namespacing

Components sharing one client derive their keys from a Keyspace:

	scores := cache.NewKeyspace("scores", "trained")
	c.Set(scores.IntKey(user.Key), entry)

	locale := cache.NewKeyspace("locale")
	c.Set(locale.Key(user.ExternalID), excluded)

# Thread Safety

All operations are safe for concurrent use. Writes are last-writer-wins.
*/
package cache
