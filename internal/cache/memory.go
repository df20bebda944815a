// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryEntry is a node in the recency list.
type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
	prev      *memoryEntry
	next      *memoryEntry
}

// Memory is a thread-safe in-memory cache with per-entry TTL and LRU
// eviction once capacity is reached.
//
//   - O(1) Get, Set and eviction
//   - Lazy expiration on Get plus a background sweep every cleanupInterval
//   - Hit, miss and eviction statistics
type Memory struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*memoryEntry

	// head.next is the most recently used, tail.prev the least.
	head *memoryEntry
	tail *memoryEntry

	stats Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

const cleanupInterval = 5 * time.Minute

// NewMemory creates an in-memory cache and starts its cleanup goroutine.
// Close stops the goroutine.
//
//	c := cache.NewMemory(10000, 10*time.Minute)
//	defer c.Close()
func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	c := &Memory{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*memoryEntry),
		head:     &memoryEntry{},
		tail:     &memoryEntry{},
		stats:    Stats{LastCleanup: time.Now()},
		stop:     make(chan struct{}),
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	go c.cleanupLoop()

	return c
}

// Name implements Backend.
func (c *Memory) Name() string { return string(BackendMemory) }

// Get retrieves a value, moving it to the front of the recency list.
// Expired entries are removed and counted as misses.
func (c *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	if !exists {
		c.stats.Misses++
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.removeEntry(entry)
		c.stats.Misses++
		c.stats.Evictions++
		return nil, false
	}

	c.moveToFront(entry)
	c.stats.Hits++
	return entry.value, true
}

// Set stores a copy of value. A ttl <= 0 uses the default TTL.
func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	if entry, exists := c.items[key]; exists {
		entry.value = stored
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return nil
	}

	entry := &memoryEntry{key: key, value: stored, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.removeEntry(c.tail.prev)
		c.stats.Evictions++
	}
	c.stats.TotalKeys = int64(len(c.items))
	return nil
}

// Delete removes a single entry.
func (c *Memory) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		c.removeEntry(entry)
		c.stats.Evictions++
	}
}

// DeletePrefix removes every entry whose key starts with prefix.
func (c *Memory) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeEntry(entry)
			c.stats.Evictions++
		}
	}
	return nil
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Evictions += int64(len(c.items))
	c.items = make(map[string]*memoryEntry)
	c.head.next = c.tail
	c.tail.prev = c.head
	c.stats.TotalKeys = 0
}

// Len returns the number of stored entries, expired or not.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns a snapshot of cache statistics.
func (c *Memory) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// HitRate returns the cache hit rate as a percentage
func (c *Memory) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *Memory) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *Memory) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries
func (c *Memory) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.items {
		if now.After(entry.expiresAt) {
			c.removeEntry(entry)
			c.stats.Evictions++
		}
	}
	c.stats.TotalKeys = int64(len(c.items))
	c.stats.LastCleanup = now
}

// addToFront inserts entry right after head (must be called with mu held).
func (c *Memory) addToFront(entry *memoryEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

// moveToFront marks entry as most recently used (must be called with mu held).
func (c *Memory) moveToFront(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

// removeEntry unlinks entry and drops it from the map (must be called with mu held).
func (c *Memory) removeEntry(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
	c.stats.TotalKeys = int64(len(c.items))
}
