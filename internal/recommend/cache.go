// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

package recommend

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/roomatch/roomatch/internal/models"
)

// cacheEntry holds one cached recommendation list.
type cacheEntry struct {
	recs      []models.Recommendation
	expiresAt time.Time
}

// Cache is an in-memory TTL cache of recommendation lists keyed by
// (user, limit). Safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewCache creates a cache with the given TTL and size bound.
func NewCache(cfg CacheConfig) *Cache {
	return &Cache{
		entries:    make(map[string]cacheEntry),
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		now:        time.Now,
	}
}

func cacheKey(userID string, limit int) string {
	return userID + ":" + strconv.Itoa(limit)
}

// Get returns the cached list for (userID, limit), or false when
// absent or expired.
func (c *Cache) Get(userID string, limit int) ([]models.Recommendation, bool) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(userID, limit)]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}

	// Copy so callers cannot mutate the cached slice.
	recs := make([]models.Recommendation, len(entry.recs))
	copy(recs, entry.recs)
	return recs, true
}

// Set stores a recommendation list for (userID, limit).
func (c *Cache) Set(userID string, limit int, recs []models.Recommendation) {
	stored := make([]models.Recommendation, len(recs))
	copy(stored, recs)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[cacheKey(userID, limit)] = cacheEntry{
		recs:      stored,
		expiresAt: c.now().Add(c.ttl),
	}
}

// InvalidateUser drops every cached list for a user, across all limits.
func (c *Cache) InvalidateUser(userID string) {
	prefix := userID + ":"

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// SweepExpired removes expired entries and returns how many were
// dropped. The janitor service calls this periodically.
func (c *Cache) SweepExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldestLocked removes the entry closest to expiry. Caller holds
// the write lock.
func (c *Cache) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
