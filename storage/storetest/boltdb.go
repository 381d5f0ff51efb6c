package storetest

import (
	"os"
	"testing"

	"github.com/Sjoshi-TYCS/witsml/storage/boltdb"
	"github.com/stretchr/testify/assert"
)

func MustGetDB(tb testing.TB) *boltdb.DB {
	tb.Helper()

	f, err := os.CreateTemp("", "witsml-boltdb")
	assert.NoError(tb, err)
	assert.NoError(tb, f.Close())

	return boltdb.NewDB("file:" + f.Name())
}

// MustOpenDB returns a new, open DB with the adapter buckets. The file is
// removed when the test ends. Fatal on error.
func MustOpenDB(tb testing.TB) *boltdb.DB {
	tb.Helper()
	db := MustGetDB(tb)
	db.RegisterBuckets(boltdb.AdapterBuckets...)
	if err := db.Open(); err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		MustCloseDB(tb, db)
		CleanupDB(tb, db.Path())
	})
	return db
}

// MustCloseDB closes the DB. Fatal on error.
func MustCloseDB(tb testing.TB, db *boltdb.DB) {
	tb.Helper()
	if err := db.Close(); err != nil {
		tb.Fatal(err)
	}
}

func CleanupDB(tb testing.TB, path string) {
	tb.Helper()

	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		tb.Fatal(err)
	}
}
