package loader

import (
	"sync"
	"time"

	"github.com/speedwagon-io/sysdash/internal/model"
)

// Cache holds the single process-wide load result for a short window.
// Multiple viewers within the TTL share the entry; stale-but-recent
// reads are acceptable. A manual refresh invalidates synchronously.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	table    model.Table
	status   model.Status
	loadedAt time.Time
	valid    bool
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// NewCacheWithClock injects the clock, for tests.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{ttl: ttl, now: now}
}

func (c *Cache) get() (model.Table, model.Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.now().Sub(c.loadedAt) >= c.ttl {
		return nil, model.OK, false
	}
	return c.table, c.status, true
}

func (c *Cache) put(table model.Table, status model.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = table
	c.status = status
	c.loadedAt = c.now()
	c.valid = true
}

// Invalidate drops the entry so the next read hits the store.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.table = nil
	c.status = model.OK
}
