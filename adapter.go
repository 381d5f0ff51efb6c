package witsml

import "context"

// Filter selects data objects by type and identifier. Empty identifier
// fields are wildcards.
type Filter struct {
	Family Family
	Type   ObjectType
	ID     ObjectID
}

// Matches reports whether o satisfies f.
func (f Filter) Matches(o *DataObject) bool {
	if o.Version.Family() != f.Family || o.Type != f.Type {
		return false
	}
	match := func(want, got string) bool { return want == "" || want == got }
	return match(f.ID.Uid, o.ID.Uid) &&
		match(f.ID.UidWellbore, o.ID.UidWellbore) &&
		match(f.ID.UidWell, o.ID.UidWell)
}

// ChunkFilter selects chunks by their range. A nil ChunkFilter selects all
// chunks.
type ChunkFilter func(start, end int64) bool

// Txn is the read-modify-write view of one object handed to an UpdateFunc.
// Every call sees the state as of the start of the update plus the txn's own
// writes.
type Txn interface {
	// Object returns a private copy of the persisted object.
	Object() *DataObject

	Chunks(keep ChunkFilter) ([]Chunk, error)
	PutChunk(c Chunk) error
	DeleteChunk(start int64) error
}

// UpdateFunc computes the new state of an object from a consistent snapshot.
// The returned object replaces the persisted one; returning an error aborts
// the update with no state change.
type UpdateFunc func(txn Txn) (*DataObject, error)

// DataAdapter is the backing-store contract. Updates to one key are
// serialized: Update must run fn against a snapshot no other writer can change
// until fn's result is persisted.
type DataAdapter interface {
	// Query returns the objects matching f, ordered by key.
	Query(ctx context.Context, f Filter) ([]*DataObject, error)

	// Get returns the object stored under key, or an ErrDataObjectNotExist
	// error.
	Get(ctx context.Context, key Key) (*DataObject, error)

	// Add persists a new object and its chunks. It fails with
	// ErrDataObjectUidAlreadyExists when the key is taken.
	Add(ctx context.Context, obj *DataObject, chunks []Chunk) error

	Update(ctx context.Context, key Key, fn UpdateFunc) error

	// Delete removes an object and all of its chunks.
	Delete(ctx context.Context, key Key) error

	// Chunks returns the chunks of key selected by keep, ordered by start.
	Chunks(ctx context.Context, key Key, keep ChunkFilter) ([]Chunk, error)
}

// BatchDeleter is implemented by adapters that can remove several objects
// atomically. DeleteAll removes every key or, on error, none of them.
type BatchDeleter interface {
	DeleteAll(ctx context.Context, keys []Key) error
}
