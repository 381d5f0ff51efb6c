package boltdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/logger"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketObjects = Bucket("objects")
	bucketChunks  = Bucket("chunks")
)

// AdapterBuckets defines the buckets used by Adapter. It can be called
// during setup to create the buckets ahead of time.
var AdapterBuckets []Bucket = []Bucket{
	bucketObjects,
	bucketChunks,
}

// Ensure type implements interface.
var _ witsml.DataAdapter = (*Adapter)(nil)
var _ witsml.BatchDeleter = (*Adapter)(nil)

// Adapter stores each object as JSON under its key in the objects bucket,
// and its chunks in a nested bucket of the chunks bucket keyed by chunk
// start.
type Adapter struct {
	db     *DB
	logger logger.Logger
}

// NewAdapter returns an adapter over db, which must have been opened with
// AdapterBuckets.
func NewAdapter(db *DB, log logger.Logger) *Adapter {
	if log == nil {
		log = logger.NopLogger
	}
	return &Adapter{
		db:     db,
		logger: log,
	}
}

// chunkKey encodes a chunk start so that byte order is numeric order.
func chunkKey(start int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(start)^(1<<63))
	return b
}

func keyPrefix(f witsml.Filter) []byte {
	return []byte(string(f.Family) + "/" + string(f.Type) + "/")
}

func (a *Adapter) Query(ctx context.Context, f witsml.Filter) ([]*witsml.DataObject, error) {
	var out []*witsml.DataObject
	err := a.db.View(ctx, func(tx *Tx) error {
		bkt, err := tx.bucket(bucketObjects)
		if err != nil {
			return err
		}
		prefix := keyPrefix(f)
		c := bkt.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			obj, err := decodeObject(v)
			if err != nil {
				return errors.Wrapf(err, "decoding %s", k)
			}
			if f.Matches(obj) {
				out = append(out, obj)
			}
		}
		return nil
	})
	return out, err
}

func (a *Adapter) Get(ctx context.Context, key witsml.Key) (*witsml.DataObject, error) {
	var obj *witsml.DataObject
	err := a.db.View(ctx, func(tx *Tx) error {
		var err error
		obj, err = getObject(tx, key)
		return err
	})
	return obj, err
}

func (a *Adapter) Add(ctx context.Context, obj *witsml.DataObject, chunks []witsml.Chunk) error {
	key := obj.Key()
	return a.db.Update(ctx, func(tx *Tx) error {
		bkt, err := tx.bucket(bucketObjects)
		if err != nil {
			return err
		}
		if bkt.Get([]byte(key.String())) != nil {
			return witsml.NewErrDataObjectUidAlreadyExists(key.Type, key.ID)
		}
		if err := putObject(bkt, obj); err != nil {
			return err
		}
		t := &txn{tx: tx, key: key, obj: obj}
		for _, c := range chunks {
			if err := t.PutChunk(c); err != nil {
				return err
			}
		}
		a.logger.Debugf("added %s with %d chunks", key, len(chunks))
		return nil
	})
}

func (a *Adapter) Update(ctx context.Context, key witsml.Key, fn witsml.UpdateFunc) error {
	return a.db.Update(ctx, func(tx *Tx) error {
		obj, err := getObject(tx, key)
		if err != nil {
			return err
		}
		next, err := fn(&txn{tx: tx, key: key, obj: obj})
		if err != nil {
			return err
		}
		bkt, err := tx.bucket(bucketObjects)
		if err != nil {
			return err
		}
		return putObject(bkt, next)
	})
}

func (a *Adapter) Delete(ctx context.Context, key witsml.Key) error {
	return a.db.Update(ctx, func(tx *Tx) error {
		return deleteObject(tx, key)
	})
}

// DeleteAll removes keys in a single transaction.
func (a *Adapter) DeleteAll(ctx context.Context, keys []witsml.Key) error {
	return a.db.Update(ctx, func(tx *Tx) error {
		for _, key := range keys {
			if err := deleteObject(tx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteObject(tx *Tx, key witsml.Key) error {
	bkt, err := tx.bucket(bucketObjects)
	if err != nil {
		return err
	}
	k := []byte(key.String())
	if bkt.Get(k) == nil {
		return witsml.NewErrDataObjectNotExist(key.Type, key.ID)
	}
	if err := bkt.Delete(k); err != nil {
		return errors.Wrapf(err, "deleting %s", key)
	}
	chunks, err := tx.bucket(bucketChunks)
	if err != nil {
		return err
	}
	if chunks.Bucket(k) != nil {
		return errors.Wrapf(chunks.DeleteBucket(k), "deleting chunks of %s", key)
	}
	return nil
}

func (a *Adapter) Chunks(ctx context.Context, key witsml.Key, keep witsml.ChunkFilter) ([]witsml.Chunk, error) {
	var out []witsml.Chunk
	err := a.db.View(ctx, func(tx *Tx) error {
		obj, err := getObject(tx, key)
		if err != nil {
			return err
		}
		out, err = (&txn{tx: tx, key: key, obj: obj}).Chunks(keep)
		return err
	})
	return out, err
}

func getObject(tx *Tx, key witsml.Key) (*witsml.DataObject, error) {
	bkt, err := tx.bucket(bucketObjects)
	if err != nil {
		return nil, err
	}
	v := bkt.Get([]byte(key.String()))
	if v == nil {
		return nil, witsml.NewErrDataObjectNotExist(key.Type, key.ID)
	}
	return decodeObject(v)
}

func putObject(bkt *bolt.Bucket, obj *witsml.DataObject) error {
	v, err := json.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "marshalling object")
	}
	return errors.Wrap(bkt.Put([]byte(obj.Key().String()), v), "putting object")
}

func decodeObject(v []byte) (*witsml.DataObject, error) {
	obj := &witsml.DataObject{}
	if err := json.Unmarshal(v, obj); err != nil {
		return nil, errors.Wrap(err, "unmarshalling object")
	}
	return obj, nil
}

// txn reads and writes the chunks of one object inside a bolt transaction.
// Values read from bolt are only valid for the transaction, so every chunk
// is decoded into a fresh value.
type txn struct {
	tx  *Tx
	key witsml.Key
	obj *witsml.DataObject
}

func (t *txn) Object() *witsml.DataObject { return t.obj }

func (t *txn) chunks(create bool) (*bolt.Bucket, error) {
	parent, err := t.tx.bucket(bucketChunks)
	if err != nil {
		return nil, err
	}
	name := []byte(t.key.String())
	if !create {
		return parent.Bucket(name), nil
	}
	bkt, err := parent.CreateBucketIfNotExists(name)
	return bkt, errors.Wrapf(err, "creating chunk bucket for %s", t.key)
}

func (t *txn) Chunks(keep witsml.ChunkFilter) ([]witsml.Chunk, error) {
	bkt, err := t.chunks(false)
	if err != nil || bkt == nil {
		return nil, err
	}
	var out []witsml.Chunk
	err = bkt.ForEach(func(k, v []byte) error {
		var c witsml.Chunk
		if err := json.Unmarshal(v, &c); err != nil {
			return errors.Wrapf(err, "unmarshalling chunk of %s", t.key)
		}
		if keep == nil || keep(c.Start, c.End) {
			out = append(out, c)
		}
		return nil
	})
	return out, err
}

func (t *txn) PutChunk(c witsml.Chunk) error {
	bkt, err := t.chunks(true)
	if err != nil {
		return err
	}
	v, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshalling chunk")
	}
	return errors.Wrap(bkt.Put(chunkKey(c.Start), v), "putting chunk")
}

func (t *txn) DeleteChunk(start int64) error {
	bkt, err := t.chunks(false)
	if err != nil || bkt == nil {
		return err
	}
	return errors.Wrap(bkt.Delete(chunkKey(start)), "deleting chunk")
}
