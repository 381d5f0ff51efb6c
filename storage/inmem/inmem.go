// Package inmem contains the in-memory implementation of the backing-store
// adapter.
package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/logger"
)

// Ensure type implements interface.
var _ witsml.DataAdapter = (*Adapter)(nil)
var _ witsml.BatchDeleter = (*Adapter)(nil)

type entry struct {
	obj    *witsml.DataObject
	chunks map[int64]witsml.Chunk
}

// Adapter keeps objects and their chunks in maps. Writes to one key are
// serialized by a per-key lock; reads never block on an update in progress.
type Adapter struct {
	mu      sync.RWMutex
	objects map[string]*entry
	locks   map[string]*sync.Mutex

	logger logger.Logger
}

// NewAdapter returns an empty adapter.
func NewAdapter(log logger.Logger) *Adapter {
	if log == nil {
		log = logger.NopLogger
	}
	return &Adapter{
		objects: make(map[string]*entry),
		locks:   make(map[string]*sync.Mutex),
		logger:  log,
	}
}

func (a *Adapter) lock(key witsml.Key) func() {
	a.mu.Lock()
	l, ok := a.locks[key.String()]
	if !ok {
		l = &sync.Mutex{}
		a.locks[key.String()] = l
	}
	a.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (a *Adapter) Query(ctx context.Context, f witsml.Filter) ([]*witsml.DataObject, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	keys := make([]string, 0, len(a.objects))
	for k, e := range a.objects {
		if f.Matches(e.obj) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]*witsml.DataObject, 0, len(keys))
	for _, k := range keys {
		out = append(out, a.objects[k].obj.Clone())
	}
	return out, nil
}

func (a *Adapter) Get(ctx context.Context, key witsml.Key) (*witsml.DataObject, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.objects[key.String()]
	if !ok {
		return nil, witsml.NewErrDataObjectNotExist(key.Type, key.ID)
	}
	return e.obj.Clone(), nil
}

func (a *Adapter) Add(ctx context.Context, obj *witsml.DataObject, chunks []witsml.Chunk) error {
	key := obj.Key()
	defer a.lock(key)()

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.objects[key.String()]; ok {
		return witsml.NewErrDataObjectUidAlreadyExists(key.Type, key.ID)
	}
	e := &entry{obj: obj.Clone(), chunks: make(map[int64]witsml.Chunk, len(chunks))}
	for _, c := range chunks {
		e.chunks[c.Start] = cloneChunk(c)
	}
	a.objects[key.String()] = e
	a.logger.Debugf("added %s with %d chunks", key, len(chunks))
	return nil
}

func (a *Adapter) Update(ctx context.Context, key witsml.Key, fn witsml.UpdateFunc) error {
	defer a.lock(key)()

	a.mu.RLock()
	e, ok := a.objects[key.String()]
	a.mu.RUnlock()
	if !ok {
		return witsml.NewErrDataObjectNotExist(key.Type, key.ID)
	}

	tx := &txn{
		obj:  e.obj.Clone(),
		base: e.chunks,
		puts: make(map[int64]witsml.Chunk),
		dels: make(map[int64]bool),
	}
	obj, err := fn(tx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	next := &entry{obj: obj.Clone(), chunks: tx.commit()}
	a.mu.Lock()
	a.objects[key.String()] = next
	a.mu.Unlock()
	return nil
}

func (a *Adapter) Delete(ctx context.Context, key witsml.Key) error {
	defer a.lock(key)()

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.objects[key.String()]; !ok {
		return witsml.NewErrDataObjectNotExist(key.Type, key.ID)
	}
	delete(a.objects, key.String())
	return nil
}

// DeleteAll removes keys under one hold of the map lock. Nothing is removed
// when any key is missing.
func (a *Adapter) DeleteAll(ctx context.Context, keys []witsml.Key) error {
	sorted := make([]witsml.Key, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		defer a.lock(key)()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range keys {
		if _, ok := a.objects[key.String()]; !ok {
			return witsml.NewErrDataObjectNotExist(key.Type, key.ID)
		}
	}
	for _, key := range keys {
		delete(a.objects, key.String())
	}
	return nil
}

func (a *Adapter) Chunks(ctx context.Context, key witsml.Key, keep witsml.ChunkFilter) ([]witsml.Chunk, error) {
	a.mu.RLock()
	e, ok := a.objects[key.String()]
	a.mu.RUnlock()
	if !ok {
		return nil, witsml.NewErrDataObjectNotExist(key.Type, key.ID)
	}
	return selectChunks(e.chunks, keep), nil
}

// txn overlays the writes of one update on the committed chunks. The
// committed map is never modified in place.
type txn struct {
	obj  *witsml.DataObject
	base map[int64]witsml.Chunk
	puts map[int64]witsml.Chunk
	dels map[int64]bool
}

func (t *txn) Object() *witsml.DataObject { return t.obj }

func (t *txn) Chunks(keep witsml.ChunkFilter) ([]witsml.Chunk, error) {
	return selectChunks(t.view(), keep), nil
}

func (t *txn) PutChunk(c witsml.Chunk) error {
	delete(t.dels, c.Start)
	t.puts[c.Start] = cloneChunk(c)
	return nil
}

func (t *txn) DeleteChunk(start int64) error {
	delete(t.puts, start)
	t.dels[start] = true
	return nil
}

func (t *txn) view() map[int64]witsml.Chunk {
	out := make(map[int64]witsml.Chunk, len(t.base)+len(t.puts))
	for k, c := range t.base {
		if !t.dels[k] {
			out[k] = c
		}
	}
	for k, c := range t.puts {
		out[k] = c
	}
	return out
}

func (t *txn) commit() map[int64]witsml.Chunk { return t.view() }

// selectChunks returns copies of the chunks kept by keep, ordered by start.
func selectChunks(chunks map[int64]witsml.Chunk, keep witsml.ChunkFilter) []witsml.Chunk {
	out := make([]witsml.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if keep == nil || keep(c.Start, c.End) {
			out = append(out, cloneChunk(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func cloneChunk(c witsml.Chunk) witsml.Chunk {
	rows := make([]witsml.Row, len(c.Rows))
	for i, r := range c.Rows {
		vals := make(map[string]string, len(r.Values))
		for m, v := range r.Values {
			vals[m] = v
		}
		r.Values = vals
		rows[i] = r
	}
	c.Rows = rows
	return c
}
