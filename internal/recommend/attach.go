// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"sync/atomic"

	"github.com/tomtom215/appranker/internal/cache"
)

type binding struct {
	client cache.Cacher
	keys   cache.Keyspace
}

// CacheBinding holds the owner cache of a transform that memoises per-user
// state. The zero value is unbound: lookups miss and stores are dropped.
// Rebinding to a new owner replaces the previous binding.
type CacheBinding struct {
	b atomic.Pointer[binding]
}

// Bind points the binding at owner's cache under the "<namespace>:<owner>"
// keyspace.
func (c *CacheBinding) Bind(owner Owner, namespace string) {
	c.b.Store(&binding{
		client: owner.Cache(),
		keys:   cache.NewKeyspace(namespace, owner.Name()),
	})
}

// Load returns the value cached for id.
func (c *CacheBinding) Load(id string) (any, bool) {
	b := c.b.Load()
	if b == nil || b.client == nil {
		return nil, false
	}
	return b.client.Get(b.keys.Key(id))
}

// Store caches v for id with the client's default TTL.
func (c *CacheBinding) Store(id string, v any) {
	b := c.b.Load()
	if b == nil || b.client == nil {
		return
	}
	b.client.Set(b.keys.Key(id), v)
}
