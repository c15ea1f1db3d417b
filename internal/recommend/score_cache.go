// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"time"

	"github.com/tomtom215/appranker/internal/cache"
)

// scoreEntry is the cached value: the vector plus the generation that
// produced it.
type scoreEntry struct {
	generation int64
	scores     ScoreVector
}

// ScoreCache memoises score vectors per (owner, user key). An entry is only
// served while its generation tag matches the current generation.
type ScoreCache struct {
	client cache.Cacher
	keys   cache.Keyspace
	ttl    time.Duration
}

// NewScoreCache creates a score cache in the "scores:<owner>" keyspace of
// client. A zero ttl uses the client's default.
func NewScoreCache(client cache.Cacher, owner string, ttl time.Duration) *ScoreCache {
	return &ScoreCache{
		client: client,
		keys:   cache.NewKeyspace("scores", owner),
		ttl:    ttl,
	}
}

// Get returns a copy of the cached vector for userKey if it was computed
// from generation. Anything else is a miss. Entries of an older generation
// are dropped.
func (c *ScoreCache) Get(userKey int, generation int64) (ScoreVector, bool) {
	key := c.keys.IntKey(userKey)
	raw, ok := c.client.Get(key)
	if !ok {
		return nil, false
	}

	entry, ok := raw.(scoreEntry)
	if !ok {
		return nil, false
	}
	if entry.generation != generation {
		if entry.generation < generation {
			c.client.Delete(key)
		}
		return nil, false
	}

	return entry.scores.Clone(), true
}

// Set stores a private copy of scores tagged with generation.
func (c *ScoreCache) Set(userKey int, generation int64, scores ScoreVector) {
	entry := scoreEntry{generation: generation, scores: scores.Clone()}
	key := c.keys.IntKey(userKey)

	if c.ttl > 0 {
		c.client.SetWithTTL(key, entry, c.ttl)
		return
	}
	c.client.Set(key, entry)
}
