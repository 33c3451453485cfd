package utils

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type cacheEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// Cache is an LRU cache with TTL support
type Cache[K comparable, V any] struct {
	maxSize   int
	ttl       time.Duration
	now       func() time.Time
	items     map[K]*list.Element
	lruList   *list.List
	mu        sync.Mutex
	hits      int64
	misses    int64
	evictions int64
}

// NewCache creates a cache holding at most maxSize entries for ttl each.
// A zero ttl never expires; a zero maxSize is unbounded.
func NewCache[K comparable, V any](maxSize int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[K]*list.Element),
		lruList: list.New(),
	}
}

func (c *Cache[K, V]) expired(e *cacheEntry[K, V]) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

// Get retrieves a value from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, exists := c.items[key]
	if !exists {
		c.misses++
		return zero, false
	}

	entry := elem.Value.(*cacheEntry[K, V])
	if c.expired(entry) {
		c.removeLocked(key)
		c.misses++
		return zero, false
	}

	c.lruList.MoveToFront(elem)
	c.hits++
	return entry.value, true
}

// Set adds or updates a value in the cache
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if elem, exists := c.items[key]; exists {
		entry := elem.Value.(*cacheEntry[K, V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.lruList.MoveToFront(elem)
		return
	}

	elem := c.lruList.PushFront(&cacheEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem

	if c.maxSize > 0 && c.lruList.Len() > c.maxSize {
		c.evictOldestLocked()
	}
}

// Delete removes a value from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear removes all entries from the cache
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.lruList.Init()
}

// Size returns the current number of entries
func (c *Cache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lruList.Len()
}

// Stats returns cache statistics
func (c *Cache[K, V]) Stats() (hits, misses, evictions int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.evictions, c.lruList.Len()
}

// CleanupExpired removes all expired entries
func (c *Cache[K, V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, elem := range c.items {
		if c.expired(elem.Value.(*cacheEntry[K, V])) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

// removeLocked removes an entry (must be called with lock held)
func (c *Cache[K, V]) removeLocked(key K) {
	if elem, exists := c.items[key]; exists {
		c.lruList.Remove(elem)
		delete(c.items, key)
	}
}

// evictOldestLocked removes the least recently used entry (must be called with lock held)
func (c *Cache[K, V]) evictOldestLocked() {
	if elem := c.lruList.Back(); elem != nil {
		c.removeLocked(elem.Value.(*cacheEntry[K, V]).key)
		c.evictions++
	}
}

// StartCleanupWorker periodically removes expired entries until ctx is done
func (c *Cache[K, V]) StartCleanupWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpired()
		case <-ctx.Done():
			return
		}
	}
}
