// Package memory implements ports.CacheService as an in-process map with
// TTL expiry. It backs single-instance deployments without a Valkey server
// and the test suite.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a thread-safe in-memory key-value store with per-entry TTLs.
// An entry past its TTL behaves exactly like a missing one.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get retrieves a value by key. Absent or expired keys return
// domain.ErrCacheMiss; expired entries are dropped on read.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value with a TTL in seconds. The stored copy is private to
// the cache.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	c.mu.Lock()
	c.entries[key] = entry{
		value:     buf,
		expiresAt: c.now().Add(time.Duration(ttlSeconds) * time.Second),
	}
	c.mu.Unlock()
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// CleanupExpired removes all expired entries and reports how many.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor periodically removes expired entries until ctx is done.
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CleanupExpired()
			}
		}
	}()
}
