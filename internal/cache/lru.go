// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package cache

import (
	"sync"
	"time"
)

// lruNode is a node of the recency list.
type lruNode struct {
	key       string
	value     interface{}
	expiresAt time.Time
	prev      *lruNode
	next      *lruNode
}

// LRUCache is a bounded, thread-safe Least Recently Used cache with TTL support.
//
// Lookups and evictions are O(1): a map indexes nodes of a doubly-linked list
// whose front is the most recently used entry. Expired entries are removed
// lazily on access.
type LRUCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*lruNode

	// head.next is the most recently used, tail.prev the least recently used
	head *lruNode
	tail *lruNode

	hits      int64
	misses    int64
	evictions int64
}

// NewLRUCache creates a new LRU cache with the specified capacity and default TTL.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 10000
	}

	c := &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*lruNode, capacity),
		head:     &lruNode{},
		tail:     &lruNode{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get retrieves a value and marks it as most recently used.
func (c *LRUCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if !node.expiresAt.IsZero() && time.Now().After(node.expiresAt) {
		c.unlink(node)
		delete(c.items, key)
		c.misses++
		c.evictions++
		return nil, false
	}

	c.moveToFront(node)
	c.hits++
	return node.value, true
}

// Set stores a value with the default TTL.
func (c *LRUCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL, evicting the least recently
// used entry when the cache is full. A non-positive TTL disables expiry.
func (c *LRUCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[key]; ok {
		node.value = value
		node.expiresAt = expiresAt
		c.moveToFront(node)
		return
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	node := &lruNode{key: key, value: value, expiresAt: expiresAt}
	c.items[key] = node
	c.pushFront(node)
}

// Delete removes a key. No-op if absent.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[key]; ok {
		c.unlink(node)
		delete(c.items, key)
		c.evictions++
	}
}

// Clear removes all entries.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictions += int64(len(c.items))
	c.items = make(map[string]*lruNode, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the number of entries, including expired ones not yet collected.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns a snapshot of cache statistics.
func (c *LRUCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		TotalKeys: int64(len(c.items)),
	}
}

// HitRate returns the cache hit rate as a percentage.
func (c *LRUCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return hitRate(c.hits, c.misses)
}

// Close implements Cacher. The LRU cache runs no background work.
func (c *LRUCache) Close() {}

func (c *LRUCache) pushFront(node *lruNode) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

func (c *LRUCache) moveToFront(node *lruNode) {
	if c.head.next == node {
		return
	}
	c.unlink(node)
	c.pushFront(node)
}

func (c *LRUCache) unlink(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	node.prev = nil
	node.next = nil
}

func (c *LRUCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.unlink(oldest)
	delete(c.items, oldest.key)
	c.evictions++
}
