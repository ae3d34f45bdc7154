package indexcache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"book-rag/internal/vectorindex"
)

// BuildFunc constructs the embedding index for one cache key. It runs on a
// context detached from the triggering request.
type BuildFunc func(ctx context.Context) (*vectorindex.Index, error)

// Cache hands out built indexes and guarantees that each key is built at
// most once at a time. Concurrent callers for the same key share one build
// and its outcome; failed builds are not retained, so the next caller
// retries. Entries live until Evict or process shutdown.
type Cache struct {
	mu      sync.RWMutex
	indexes map[string]*vectorindex.Index
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{indexes: make(map[string]*vectorindex.Index)}
}

// GetOrBuild returns the cached index for key, building it through build on
// a miss. Callers racing an in-flight build wait for its result.
func (c *Cache) GetOrBuild(ctx context.Context, key string, build BuildFunc) (*vectorindex.Index, error) {
	c.mu.RLock()
	ix, ok := c.indexes[key]
	c.mu.RUnlock()
	if ok {
		return ix, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		ix, ok := c.indexes[key]
		c.mu.RUnlock()
		if ok {
			return ix, nil
		}
		// The build outlives the request that triggered it: an abandoned
		// caller must not tear down work later requests can reuse.
		built, err := build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.indexes[key] = built
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	built, ok := v.(*vectorindex.Index)
	if !ok {
		return nil, fmt.Errorf("cached value for %s is not an index", key)
	}
	return built, nil
}

// Get returns the cached index without triggering a build.
func (c *Cache) Get(key string) (*vectorindex.Index, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ix, ok := c.indexes[key]
	return ix, ok
}

// Evict drops the entry for key; the next GetOrBuild rebuilds it.
func (c *Cache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.indexes, key)
}

// Len reports the number of cached indexes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.indexes)
}
