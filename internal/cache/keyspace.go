// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package cache

import (
	"strconv"
	"strings"
)

// Keyspace namespaces keys in a shared Cacher so that components holding the
// same client cannot collide. Keys take the form "prefix:part:part".
type Keyspace struct {
	prefix string
}

// NewKeyspace returns a keyspace rooted at the given parts.
func NewKeyspace(parts ...string) Keyspace {
	return Keyspace{prefix: strings.Join(parts, ":")}
}

// Sub returns a nested keyspace.
func (k Keyspace) Sub(part string) Keyspace {
	if k.prefix == "" {
		return Keyspace{prefix: part}
	}
	return Keyspace{prefix: k.prefix + ":" + part}
}

// Key joins id onto the keyspace prefix.
func (k Keyspace) Key(id string) string {
	if k.prefix == "" {
		return id
	}
	return k.prefix + ":" + id
}

// IntKey is Key for integer ids.
func (k Keyspace) IntKey(id int) string {
	return k.Key(strconv.Itoa(id))
}

// String returns the prefix.
func (k Keyspace) String() string {
	return k.prefix
}
