// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package cache

import "time"

// Cacher defines the interface for cache implementations.
// Both Cache (TTL-based) and LRUCache implement this interface,
// so the recommendation controller can be wired to either strategy.
//
// Usage:
//
//	var c Cacher = New(5 * time.Minute)
//	defer c.Close()
//	c.Set("significance:trained:42", vector)
//	if val, ok := c.Get("significance:trained:42"); ok {
//	    // Use cached value
//	}
type Cacher interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found and not expired.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with the default TTL.
	Set(key string, value interface{})

	// SetWithTTL stores a value with a custom TTL.
	// A non-positive TTL stores the value without expiry.
	SetWithTTL(key string, value interface{}, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all entries from the cache.
	Clear()

	// GetStats returns cache statistics.
	GetStats() Stats

	// HitRate returns the cache hit rate as a percentage.
	HitRate() float64

	// Close releases background resources. Safe to call more than once.
	Close()
}

// CacheType represents the type of cache to create.
type CacheType string

const (
	// CacheTypeTTL is an unbounded TTL-based cache (default).
	CacheTypeTTL CacheType = "ttl"

	// CacheTypeLRU is a bounded Least Recently Used cache.
	// Best for: large user populations where per-user score vectors
	// would otherwise grow without bound.
	CacheTypeLRU CacheType = "lru"
)

// CacheConfig holds configuration for creating a cache.
type CacheConfig struct {
	// Type specifies the cache implementation (ttl or lru)
	Type CacheType

	// TTL is the default time-to-live for cache entries
	TTL time.Duration

	// Capacity is the maximum number of entries (only used for LRU)
	// Default: 10000
	Capacity int
}

// NewCacher creates a cache based on the configuration.
//
// Example:
//
//	c := NewCacher(CacheConfig{Type: CacheTypeLRU, TTL: 10 * time.Minute, Capacity: 50000})
func NewCacher(cfg CacheConfig) Cacher {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	switch cfg.Type {
	case CacheTypeLRU:
		return NewLRUCache(cfg.Capacity, cfg.TTL)
	default:
		return New(cfg.TTL)
	}
}

// Verify interface implementations at compile time
var (
	_ Cacher = (*Cache)(nil)
	_ Cacher = (*LRUCache)(nil)
)
