package engine

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// descCache holds fetched job descriptions for the life of the process.
// The same posting routinely surfaces under several keyword and location
// queries before filtering dedups them, and a LinkedIn description costs
// a full page fetch; the second sighting should be free.
var descCache *memoryCache

var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

const cacheCleanupInterval = 5 * time.Minute

type memoryCache struct {
	entries    sync.Map // key -> *cacheEntry
	ttl        time.Duration
	maxEntries int
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// InitCache sets up the in-process description cache. With pacing on, a
// broad search plan can run for a long while, so entries expire on a TTL
// and a background sweep keeps the map from holding dead data.
func InitCache(ttl time.Duration, maxEntries int) {
	descCache = &memoryCache{ttl: ttl, maxEntries: maxEntries}
	go descCache.cleanupLoop()
	slog.Debug("description cache ready", "ttl", ttl, "max_entries", maxEntries)
}

// CacheKey builds a deterministic key from its parts.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	sum := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("ga:%x", sum[:12])
}

// CachedDescription returns the stored description for a job URL, if a
// live entry exists.
func CachedDescription(jobURL string) (string, bool) {
	if descCache == nil || jobURL == "" {
		return "", false
	}
	key := CacheKey("desc", jobURL)
	val, ok := descCache.entries.Load(key)
	if !ok {
		cacheMisses.Add(1)
		return "", false
	}
	entry := val.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		descCache.entries.Delete(key)
		cacheMisses.Add(1)
		return "", false
	}
	cacheHits.Add(1)
	return string(entry.data), true
}

// StoreDescription records a fetched description for a job URL. Empty
// descriptions are not stored so a later attempt can try again.
func StoreDescription(jobURL, description string) {
	if descCache == nil || jobURL == "" || description == "" {
		return
	}
	descCache.evictIfNeeded()
	descCache.entries.Store(CacheKey("desc", jobURL), &cacheEntry{
		data:      []byte(description),
		expiresAt: time.Now().Add(descCache.ttl),
	})
}

// CacheStats reports the hit and miss counters.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}

// evictIfNeeded makes room before an insert: expired entries go first,
// then the oldest by expiry until the map is back under maxEntries.
func (c *memoryCache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := 0
	c.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	now := time.Now()
	c.entries.Range(func(key, val any) bool {
		if now.After(val.(*cacheEntry).expiresAt) {
			c.entries.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	for count >= c.maxEntries {
		var oldestKey any
		var oldestExpiry time.Time
		c.entries.Range(func(key, val any) bool {
			entry := val.(*cacheEntry)
			if oldestKey == nil || entry.expiresAt.Before(oldestExpiry) {
				oldestKey = key
				oldestExpiry = entry.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		c.entries.Delete(oldestKey)
		count--
	}
}

func (c *memoryCache) cleanupLoop() {
	ticker := time.NewTicker(cacheCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		removed := 0
		c.entries.Range(func(key, val any) bool {
			if now.After(val.(*cacheEntry).expiresAt) {
				c.entries.Delete(key)
				removed++
			}
			return true
		})
		if removed > 0 {
			slog.Debug("cache cleanup", "removed", removed)
		}
	}
}
