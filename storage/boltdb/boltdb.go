// Package boltdb contains the bbolt implementation of the backing-store
// adapter.
package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sjoshi-TYCS/witsml/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	ErrFmtBucketNotFound = "boltdb: bucket '%s' not found"
)

type Bucket []byte

// DB represents the database connection.
type DB struct {
	db *bolt.DB

	// Datasource name.
	DSN string

	// Returns the current time. Defaults to time.Now().
	// Can be mocked for tests.
	Now func() time.Time

	filePath string

	// NoSync skips fsync after each commit. Set before Open.
	NoSync bool

	// bucketQueue contains a list of buckets to create upon Open.
	bucketQueue []Bucket
}

// NewDB returns a new instance of DB associated with the given datasource name.
func NewDB(dsn string) *DB {
	return &DB{
		DSN: dsn,
		Now: time.Now,
	}
}

// NewSvcBolt gets, opens, and creates buckets for a boltDB for a
// particular named service (the data file will be named after the
// service).
func NewSvcBolt(dir, svc string, buckets ...Bucket) (*DB, error) {
	dir = strings.TrimPrefix(dir, "file:")
	filename := filepath.Join(dir, svc+".boltdb")
	db := NewDB("file:" + filename)
	db.RegisterBuckets(buckets...)
	err := db.Open()
	return db, errors.Wrap(err, "opening")
}

// path returns the file path to the boltdb database file.
func (db *DB) path() (string, error) {
	if !strings.HasPrefix(db.DSN, "file:") {
		return "", errors.New(errors.ErrUncoded, "boltdb package only supports a DSN beginning with `file:`")
	}
	return db.DSN[5:], nil
}

// RegisterBuckets queues up the buckets to be created when the database is
// first opened.
func (db *DB) RegisterBuckets(buckets ...Bucket) {
	db.bucketQueue = append(db.bucketQueue, buckets...)
}

// InitializeBuckets creates the given buckets if they do not already exist.
func (db *DB) InitializeBuckets(buckets ...Bucket) error {
	return db.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return errors.Wrapf(err, "creating bucket: %s", bucket)
			}
		}
		return nil
	})
}

// Open opens the database connection.
func (db *DB) Open() (err error) {
	path, err := db.path()
	if err != nil {
		return errors.Wrap(err, "getting path from DSN")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	} else if db.db, err = bolt.Open(path, 0666, &bolt.Options{Timeout: 1 * time.Second, NoSync: db.NoSync}); err != nil {
		return errors.Wrapf(err, "open file: %s", path)
	}
	db.filePath = path

	if err := db.InitializeBuckets(db.bucketQueue...); err != nil {
		return errors.Wrap(err, "initializing buckets")
	}
	db.bucketQueue = nil
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// View runs fn in a read-only transaction.
func (db *DB) View(ctx context.Context, fn func(*Tx) error) error {
	return db.db.View(func(tx *bolt.Tx) error {
		return fn(db.wrap(ctx, tx))
	})
}

// Update runs fn in a read-write transaction. bbolt allows one writer at a
// time, so fn sees no concurrent writes.
func (db *DB) Update(ctx context.Context, fn func(*Tx) error) error {
	return db.db.Update(func(tx *bolt.Tx) error {
		return fn(db.wrap(ctx, tx))
	})
}

func (db *DB) wrap(ctx context.Context, tx *bolt.Tx) *Tx {
	return &Tx{
		Tx:  tx,
		ctx: ctx,
		now: db.Now().UTC().Truncate(time.Second),
	}
}

// Tx wraps the bolt Tx to provide a timestamp at the start of the
// transaction.
type Tx struct {
	*bolt.Tx
	ctx context.Context
	now time.Time
}

func (tx *Tx) Context() context.Context {
	return tx.ctx
}

// Now returns the time the transaction started.
func (tx *Tx) Now() time.Time {
	return tx.now
}

func (tx *Tx) bucket(name Bucket) (*bolt.Bucket, error) {
	bkt := tx.Bucket(name)
	if bkt == nil {
		return nil, errors.Errorf(ErrFmtBucketNotFound, name)
	}
	return bkt, nil
}

func (db *DB) Path() string {
	return db.filePath
}
