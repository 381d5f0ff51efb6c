// Package cache wraps a backing-store adapter with a read-through object
// cache.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	gocache "github.com/patrickmn/go-cache"
)

// Ensure type implements interface.
var _ witsml.DataAdapter = (*Adapter)(nil)
var _ witsml.BatchDeleter = (*Adapter)(nil)

// Adapter caches the results of Get for ttl. Every write through the adapter
// evicts the written key. Query and Chunks are not cached.
//
// Each key carries a write generation. A Get only fills the cache when no
// write to its key finished while the source read was in flight.
type Adapter struct {
	witsml.DataAdapter
	cache *gocache.Cache

	mu   sync.Mutex
	gens map[string]uint64
}

// New wraps source. A zero ttl returns source unchanged.
func New(source witsml.DataAdapter, ttl time.Duration) witsml.DataAdapter {
	if ttl <= 0 {
		return source
	}
	return &Adapter{
		DataAdapter: source,
		cache:       gocache.New(ttl, 2*ttl),
		gens:        make(map[string]uint64),
	}
}

func (a *Adapter) Get(ctx context.Context, key witsml.Key) (*witsml.DataObject, error) {
	k := key.String()
	if v, ok := a.cache.Get(k); ok {
		return v.(*witsml.DataObject).Clone(), nil
	}

	a.mu.Lock()
	gen := a.gens[k]
	a.mu.Unlock()

	obj, err := a.DataAdapter.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.gens[k] == gen {
		a.cache.SetDefault(k, obj.Clone())
	}
	a.mu.Unlock()
	return obj, nil
}

// invalidate bumps the generation of k and evicts it. It runs after the
// source write returns, whether or not the write succeeded.
func (a *Adapter) invalidate(k string) {
	a.mu.Lock()
	a.gens[k]++
	a.cache.Delete(k)
	a.mu.Unlock()
}

func (a *Adapter) Add(ctx context.Context, obj *witsml.DataObject, chunks []witsml.Chunk) error {
	defer a.invalidate(obj.Key().String())
	return a.DataAdapter.Add(ctx, obj, chunks)
}

func (a *Adapter) Update(ctx context.Context, key witsml.Key, fn witsml.UpdateFunc) error {
	defer a.invalidate(key.String())
	return a.DataAdapter.Update(ctx, key, fn)
}

func (a *Adapter) Delete(ctx context.Context, key witsml.Key) error {
	defer a.invalidate(key.String())
	return a.DataAdapter.Delete(ctx, key)
}

// DeleteAll passes keys to the source in one call when it supports batch
// deletes, and one at a time otherwise.
func (a *Adapter) DeleteAll(ctx context.Context, keys []witsml.Key) error {
	defer func() {
		for _, key := range keys {
			a.invalidate(key.String())
		}
	}()
	if b, ok := a.DataAdapter.(witsml.BatchDeleter); ok {
		return b.DeleteAll(ctx, keys)
	}
	for _, key := range keys {
		if err := a.DataAdapter.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Flush empties the cache.
func (a *Adapter) Flush() {
	a.mu.Lock()
	a.cache.Flush()
	a.mu.Unlock()
}
