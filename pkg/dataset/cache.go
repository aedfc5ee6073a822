package dataset

import (
	"context"
	"sync"

	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// cacheName labels this cache's metrics.
const cacheName = "dataset"

// LoadFunc performs one physical load for an identifier.
type LoadFunc func(ctx context.Context, id string) (*Dataset, error)

// entry is one cache slot. The done channel closes exactly once, when
// the load completes; ds and err are written before the close and read
// only after it.
type entry struct {
	done chan struct{}
	ds   *Dataset
	err  error
}

// completed reports whether the entry's load has finished.
func (e *entry) completed() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Cache is the single-flight dataset cache. Each identifier moves
// through absent → loading → cached, or back to absent when its load
// fails: exactly one caller performs the load while concurrent callers
// for the same identifier wait on the in-flight result. Loads for
// distinct identifiers never serialize each other, and the loader runs
// outside the cache lock.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	metrics *metrics.Collector
}

// NewCache creates an empty cache. The collector may be nil.
func NewCache(collector *metrics.Collector) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		metrics: collector,
	}
}

// GetOrLoad returns the cached dataset for id, loading it with load on
// a miss. All concurrent callers for one identifier observe the same
// dataset or the same error. A failed load is delivered to every
// waiter of that flight and then forgotten, so a later call retries.
func (c *Cache) GetOrLoad(ctx context.Context, id string, load LoadFunc) (*Dataset, error) {
	c.mu.Lock()
	if e, ok := c.entries[id]; ok {
		c.mu.Unlock()
		c.metrics.RecordCacheHit(cacheName)
		return c.await(ctx, e)
	}

	e := &entry{done: make(chan struct{})}
	c.entries[id] = e
	c.mu.Unlock()
	c.metrics.RecordCacheMiss(cacheName)

	e.ds, e.err = load(ctx, id)
	close(e.done)

	if e.err != nil {
		c.mu.Lock()
		// Remove only our own entry; Clear or a reseed may have
		// replaced it while the load ran.
		if c.entries[id] == e {
			delete(c.entries, id)
		}
		c.mu.Unlock()
	}
	c.updateSize()

	return e.ds, e.err
}

// await blocks until the entry's load completes or the context ends.
func (c *Cache) await(ctx context.Context, e *entry) (*Dataset, error) {
	select {
	case <-e.done:
		return e.ds, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get returns the cached dataset without triggering a load. In-flight
// entries report absent.
func (c *Cache) Get(id string) (*Dataset, bool) {
	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()

	if !ok || !e.completed() || e.err != nil {
		return nil, false
	}
	return e.ds, true
}

// Seed inserts a pre-built dataset, replacing any cached value.
// Seeding over an in-flight load is a CacheStateError: the flight's
// waiters would otherwise observe two different datasets.
func (c *Cache) Seed(id string, ds *Dataset) error {
	e := &entry{done: make(chan struct{}), ds: ds}
	close(e.done)

	c.mu.Lock()
	if old, ok := c.entries[id]; ok && !old.completed() {
		c.mu.Unlock()
		return &CacheStateError{ID: id, Op: "seed"}
	}
	c.entries[id] = e
	c.mu.Unlock()
	c.updateSize()
	return nil
}

// Invalidate removes the cached dataset for id and reports whether an
// entry was removed. An in-flight load is left alone; its waiters
// still receive its result.
func (c *Cache) Invalidate(id string) bool {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok || !e.completed() {
		c.mu.Unlock()
		return false
	}
	delete(c.entries, id)
	c.mu.Unlock()

	c.metrics.RecordCacheInvalidation(cacheName)
	c.updateSize()
	return true
}

// Clear drops every cached dataset in one map swap. In-flight loads
// complete against their own entries and deliver to their waiters
// without repopulating the cleared map.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
	c.updateSize()
}

// Len returns the number of entries, including in-flight loads.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) updateSize() {
	c.metrics.UpdateCacheSize(cacheName, c.Len())
}
