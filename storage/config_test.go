package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/storage"
	"github.com/Sjoshi-TYCS/witsml/storage/boltdb"
	"github.com/Sjoshi-TYCS/witsml/storage/cache"
	"github.com/Sjoshi-TYCS/witsml/storage/inmem"
	"github.com/Sjoshi-TYCS/witsml/storage/storetest"
	"github.com/Sjoshi-TYCS/witsml/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("Inmem", func(t *testing.T) {
		cfg := storage.NewDefaultConfig()
		cfg.Backend = storage.InmemBackend
		adapter, closer, err := storage.Open(cfg, "", nil)
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &inmem.Adapter{}, adapter)
	})

	t.Run("Bolt", func(t *testing.T) {
		dir := t.TempDir()
		adapter, closer, err := storage.Open(storage.NewDefaultConfig(), dir, nil)
		require.NoError(t, err)
		assert.IsType(t, &boltdb.Adapter{}, adapter)

		obj := storetest.NewObject(witsml.ObjectTypeWell, witsml.ObjectID{Uid: "w1"})
		require.NoError(t, adapter.Add(context.Background(), obj, nil))
		require.NoError(t, closer.Close())

		_, err = os.Stat(filepath.Join(dir, "store.boltdb"))
		assert.NoError(t, err)
	})

	t.Run("Cached", func(t *testing.T) {
		cfg := storage.NewDefaultConfig()
		cfg.Backend = storage.InmemBackend
		cfg.CacheTTL = toml.Duration(time.Minute)
		adapter, _, err := storage.Open(cfg, "", nil)
		require.NoError(t, err)
		assert.IsType(t, &cache.Adapter{}, adapter)
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		cfg := storage.NewDefaultConfig()
		cfg.Backend = "cassandra"
		_, _, err := storage.Open(cfg, "", nil)
		assert.Error(t, err)
	})
}
