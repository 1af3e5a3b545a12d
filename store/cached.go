package store

import (
	"fmt"
	"slices"

	"github.com/dgraph-io/ristretto/v2"
)

// Cached fronts a Store with a bounded in-memory record cache
// Reads fall through on miss; writes and deletes go to the backing store first,
// then drop the cached copy, so a rejected admission only costs a later miss
type Cached struct {
	next  Store
	cache *ristretto.Cache[string, []byte]
}

// NewCached wraps next with a cache bounded to maxBytes of record payload
func NewCached(next Store, maxBytes int64) (*Cached, error) {
	// ~10 counters per expected entry, records average a few hundred bytes
	counters := max(10*(maxBytes/256), 1024)
	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: counters,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("store: cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Get(key string) ([]byte, error) {
	if v, ok := c.cache.Get(key); ok {
		return slices.Clone(v), nil
	}
	v, err := c.next.Get(key)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, slices.Clone(v), int64(len(v)))
	return v, nil
}

func (c *Cached) Set(key string, value []byte) error {
	if err := c.next.Set(key, value); err != nil {
		return err
	}
	c.cache.Del(key)
	c.cache.Set(key, slices.Clone(value), int64(len(value)))
	c.cache.Wait()
	return nil
}

func (c *Cached) Delete(key string) error {
	if err := c.next.Delete(key); err != nil {
		return err
	}
	c.cache.Del(key)
	return nil
}

// Keys always consults the backing store
func (c *Cached) Keys(prefix string) ([]string, error) {
	return c.next.Keys(prefix)
}

func (c *Cached) Close() error {
	c.cache.Close()
	return c.next.Close()
}
