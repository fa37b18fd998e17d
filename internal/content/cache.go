package content

import (
	"context"
	"sync"
	"time"
)

// Fetcher is anything that can produce a content batch.
type Fetcher interface {
	FetchAll(ctx context.Context) (Content, error)
}

// SnapshotCache holds the last fully successful batch for a limited time so
// pages mounted close together share one round of reads.
type SnapshotCache struct {
	mu       sync.RWMutex
	snapshot *Content
	expires  time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl, now: time.Now}
}

func (c *SnapshotCache) Get() (Content, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || c.now().After(c.expires) {
		return Content{}, false
	}
	return *c.snapshot, true
}

func (c *SnapshotCache) Set(content Content) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = &content
	c.expires = c.now().Add(c.ttl)
}

func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}

// CachedFetcher serves batches from a SnapshotCache, falling through to the
// wrapped Fetcher on a miss. Only error-free batches are stored.
type CachedFetcher struct {
	next  Fetcher
	cache *SnapshotCache
}

// NewCachedFetcher wraps next. A non-positive ttl returns next unchanged.
func NewCachedFetcher(next Fetcher, ttl time.Duration) Fetcher {
	if ttl <= 0 {
		return next
	}
	return &CachedFetcher{next: next, cache: NewSnapshotCache(ttl)}
}

func (f *CachedFetcher) FetchAll(ctx context.Context) (Content, error) {
	if c, ok := f.cache.Get(); ok {
		return c, nil
	}
	c, err := f.next.FetchAll(ctx)
	if err != nil {
		return c, err
	}
	f.cache.Set(c)
	return c, nil
}
