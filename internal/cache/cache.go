// Package cache provides a bounded TTL cache for resolved principals. It is
// an injected service object, never module-level state, and must be
// explicitly invalidated on any user-mutating write path: a cached principal
// is a latency optimization, never a source of truth for authorization
// decisions that just changed.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/atlashq/erp-core/internal/models"
)

type entry struct {
	user      *models.User
	expiresAt time.Time
	storedAt  time.Time
}

// PrincipalCache is a bounded, TTL-based cache of resolved principals
type PrincipalCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
}

// New creates a new principal cache
func New(ttl time.Duration, maxEntries int) *PrincipalCache {
	return &PrincipalCache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func userKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// Get returns the cached principal for userID, or nil when absent or expired
func (c *PrincipalCache) Get(userID int64) *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userKey(userID)]
	if !ok {
		return nil
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, userKey(userID))
		return nil
	}
	return e.user
}

// Set stores a principal, evicting the oldest entry when at capacity
func (c *PrincipalCache) Set(user *models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	key := userKey(user.ID)

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked(now)
	}

	c.entries[key] = entry{
		user:      user,
		expiresAt: now.Add(c.ttl),
		storedAt:  now,
	}
}

// evictOldestLocked removes expired entries first, then the oldest live entry
// if still at capacity. Caller holds the lock.
func (c *PrincipalCache) evictOldestLocked(now time.Time) {
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var oldestKey string
	var oldestAt time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// InvalidateUser evicts the cached principal for userID
func (c *PrincipalCache) InvalidateUser(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userKey(userID))
}

// Len returns the number of entries currently held, expired or not
func (c *PrincipalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
