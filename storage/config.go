// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package storage

import (
	"io"
	"path/filepath"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/Sjoshi-TYCS/witsml/logger"
	"github.com/Sjoshi-TYCS/witsml/storage/boltdb"
	"github.com/Sjoshi-TYCS/witsml/storage/cache"
	"github.com/Sjoshi-TYCS/witsml/storage/inmem"
	"github.com/Sjoshi-TYCS/witsml/toml"
)

// public strings that server/config.go can reference
const (
	BoltBackend  string = "boltdb"
	InmemBackend string = "inmem"
)

// DefaultBackend is set here. server/config.go references it
// to set the default for the witsml server executable.
const DefaultBackend = BoltBackend

// Config represents configuration which applies to every storage backend.
type Config struct {
	Backend string `toml:"backend"`

	// Set before calling db.Open()
	FsyncEnabled bool `toml:"fsync"`

	// CacheTTL keeps objects read through the adapter for this long. Zero
	// disables the cache.
	CacheTTL toml.Duration `toml:"cache-ttl"`
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Backend:      DefaultBackend,
		FsyncEnabled: true,
	}
}

const boltService = "store"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the backing-store adapter described by cfg, wrapped in the
// object cache when one is configured. dataDir holds the files of on-disk
// backends. The returned Closer releases the backend.
func Open(cfg *Config, dataDir string, log logger.Logger) (witsml.DataAdapter, io.Closer, error) {
	if log == nil {
		log = logger.NopLogger
	}
	var adapter witsml.DataAdapter
	var closer io.Closer = nopCloser{}

	switch cfg.Backend {
	case InmemBackend:
		adapter = inmem.NewAdapter(log)
	case BoltBackend, "":
		db := boltdb.NewDB("file:" + filepath.Join(dataDir, boltService+".boltdb"))
		db.NoSync = !cfg.FsyncEnabled
		db.RegisterBuckets(boltdb.AdapterBuckets...)
		if err := db.Open(); err != nil {
			return nil, nil, errors.Wrap(err, "opening boltdb")
		}
		log.Infof("opened boltdb store at %s", db.Path())
		adapter, closer = boltdb.NewAdapter(db, log), db
	default:
		return nil, nil, errors.Errorf("unknown storage backend '%s'", cfg.Backend)
	}

	if ttl := cfg.CacheTTL.Duration(); ttl > 0 {
		log.Infof("caching objects for %s", ttl)
		adapter = cache.New(adapter, ttl)
	}
	return adapter, closer, nil
}
