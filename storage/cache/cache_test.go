package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/storage/cache"
	"github.com/Sjoshi-TYCS/witsml/storage/inmem"
	"github.com/Sjoshi-TYCS/witsml/storage/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter(t *testing.T) {
	storetest.RunAdapterTests(t, func(t *testing.T) witsml.DataAdapter {
		return cache.New(inmem.NewAdapter(nil), time.Minute)
	})
}

func TestZeroTTL(t *testing.T) {
	src := inmem.NewAdapter(nil)
	assert.Same(t, src, cache.New(src, 0))
}

func TestReadThrough(t *testing.T) {
	ctx := context.Background()
	src := inmem.NewAdapter(nil)
	a := cache.New(src, time.Minute)

	obj := storetest.NewObject(witsml.ObjectTypeWell, witsml.ObjectID{Uid: "w1"})
	require.NoError(t, a.Add(ctx, obj, nil))
	_, err := a.Get(ctx, obj.Key())
	require.NoError(t, err)

	// A write that bypasses the cache is not seen until the entry is evicted.
	require.NoError(t, src.Update(ctx, obj.Key(), func(txn witsml.Txn) (*witsml.DataObject, error) {
		o := txn.Object()
		o.Body.SetChild("name", "behind")
		return o, nil
	}))
	got, err := a.Get(ctx, obj.Key())
	require.NoError(t, err)
	assert.Equal(t, "w1", got.Body.ChildText("name"))

	a.(*cache.Adapter).Flush()
	got, err = a.Get(ctx, obj.Key())
	require.NoError(t, err)
	assert.Equal(t, "behind", got.Body.ChildText("name"))
}

// blockingAdapter holds Get after the source read until release is closed.
type blockingAdapter struct {
	witsml.DataAdapter
	read    chan struct{}
	release chan struct{}
}

func (b *blockingAdapter) Get(ctx context.Context, key witsml.Key) (*witsml.DataObject, error) {
	obj, err := b.DataAdapter.Get(ctx, key)
	close(b.read)
	<-b.release
	return obj, err
}

func TestWriteDuringRead(t *testing.T) {
	ctx := context.Background()
	src := inmem.NewAdapter(nil)
	obj := storetest.NewObject(witsml.ObjectTypeWell, witsml.ObjectID{Uid: "w1"})
	require.NoError(t, src.Add(ctx, obj, nil))

	t.Run("Delete", func(t *testing.T) {
		blocking := &blockingAdapter{DataAdapter: src, read: make(chan struct{}), release: make(chan struct{})}
		a := cache.New(blocking, time.Minute)

		done := make(chan error)
		go func() {
			_, err := a.Get(ctx, obj.Key())
			done <- err
		}()
		<-blocking.read
		require.NoError(t, a.Delete(ctx, obj.Key()))
		close(blocking.release)
		require.NoError(t, <-done)

		// The object read before the delete must not be cached.
		blocking.read, blocking.release = make(chan struct{}), make(chan struct{})
		close(blocking.release)
		_, err := a.Get(ctx, obj.Key())
		assert.Equal(t, witsml.ErrorCodeDataObjectNotExist, witsml.ErrorCodeOf(err))
	})

	t.Run("Update", func(t *testing.T) {
		require.NoError(t, src.Add(ctx, obj, nil))
		blocking := &blockingAdapter{DataAdapter: src, read: make(chan struct{}), release: make(chan struct{})}
		a := cache.New(blocking, time.Minute)

		done := make(chan error)
		go func() {
			_, err := a.Get(ctx, obj.Key())
			done <- err
		}()
		<-blocking.read
		require.NoError(t, a.Update(ctx, obj.Key(), func(txn witsml.Txn) (*witsml.DataObject, error) {
			o := txn.Object()
			o.Body.SetChild("name", "renamed")
			return o, nil
		}))
		close(blocking.release)
		require.NoError(t, <-done)

		blocking.read, blocking.release = make(chan struct{}), make(chan struct{})
		close(blocking.release)
		got, err := a.Get(ctx, obj.Key())
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Body.ChildText("name"))
	})
}
