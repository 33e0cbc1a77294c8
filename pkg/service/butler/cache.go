package butler

import (
	"sync"
	"time"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// VectorCache is the process-wide in-memory cache of per-user chunk sets
// backing the RAG search path. Entries expire after the configured TTL; a
// stale entry is treated as a miss and the caller reloads the full set from
// the durable store.
//
// Reloads for the same user are not mutually exclusive: two concurrent
// misses may both reload and the last writer wins. This is an accepted
// race, not a bug: both reloads read the same durable source, and the
// entry is replaced by a single map assignment so readers always observe
// either the old complete set or the new complete set, never a mix.
type VectorCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]*cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	chunks    []*model.VectorChunk
	expiresAt time.Time
}

// NewVectorCache creates an empty cache with the given TTL
func NewVectorCache(ttl time.Duration) *VectorCache {
	return &VectorCache{
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached chunk set for the user. The second return value
// is false on a miss or when the entry has expired; expired entries are
// never served.
func (c *VectorCache) Get(userID string) ([]*model.VectorChunk, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		return nil, false
	}

	return entry.chunks, true
}

// Put replaces the user's chunk set and resets its expiry. Callers must not
// mutate the slice after handing it over.
func (c *VectorCache) Put(userID string, chunks []*model.VectorChunk) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = &cacheEntry{
		chunks:    chunks,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops the cached set of one user
func (c *VectorCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
}

// InvalidateAll drops every cached set
func (c *VectorCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
}
