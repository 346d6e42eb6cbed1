package modelcache

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/frogg-app/prompt-assistant-sub001/internal/infrastructure/metrics"
)

// DefaultMaxAge is how long a fetched model list is considered fresh.
const DefaultMaxAge = 5 * time.Minute

// Model describes one model as reported by an upstream provider.
type Model struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
	Created int64  `json:"created,omitempty"`
}

// Entry is a cached model list and when it was fetched.
type Entry struct {
	Models    []Model   `json:"models"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cache maps provider ids to their last fetched model list. Entries are never
// evicted; staleness is decided at read time.
type Cache struct {
	mu            sync.RWMutex
	entries       map[string]Entry
	now           func() time.Time
	defaultMaxAge time.Duration
}

type Option func(*Cache)

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func WithDefaultMaxAge(maxAge time.Duration) Option {
	return func(c *Cache) {
		c.defaultMaxAge = maxAge
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:       make(map[string]Entry),
		now:           time.Now,
		defaultMaxAge: DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) DefaultMaxAge() time.Duration {
	return c.defaultMaxAge
}

// Get returns the entry for id. ok is false when nothing was cached.
func (c *Cache) Get(id string) (Entry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		metrics.RecordCacheLookup("miss")
		return Entry{}, false
	}
	metrics.RecordCacheLookup("hit")
	return Entry{Models: slices.Clone(entry.Models), FetchedAt: entry.FetchedAt}, true
}

// Set stores models for id stamped with the current time, replacing any
// previous entry.
func (c *Cache) Set(id string, models []Model) Entry {
	entry := Entry{
		Models:    slices.Clone(models),
		FetchedAt: c.now(),
	}
	if entry.Models == nil {
		entry.Models = []Model{}
	}

	c.mu.Lock()
	c.entries[id] = entry
	size := len(c.entries)
	c.mu.Unlock()

	metrics.SetCacheEntries(size)
	return Entry{Models: slices.Clone(entry.Models), FetchedAt: entry.FetchedAt}
}

// IsStale reports staleness against the cache's default max age.
func (c *Cache) IsStale(id string) bool {
	return c.IsStaleAfter(id, c.defaultMaxAge)
}

// IsStaleAfter is true when id has no entry or the entry is at least maxAge
// old. A maxAge of zero or less makes every entry stale.
func (c *Cache) IsStaleAfter(id string, maxAge time.Duration) bool {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return true
	}
	if maxAge <= 0 {
		return true
	}
	stale := c.now().Sub(entry.FetchedAt) >= maxAge
	if stale {
		metrics.RecordCacheLookup("stale")
	}
	return stale
}

// Clear drops the entry for id. Clearing a missing id is a no-op.
func (c *Cache) Clear(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	size := len(c.entries)
	c.mu.Unlock()
	metrics.SetCacheEntries(size)
}

// ClearAll drops every entry.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
	metrics.SetCacheEntries(0)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached provider ids, sorted.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for id := range c.entries {
		keys = append(keys, id)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}
