// Package storetest holds the conformance tests every backing-store adapter
// must pass, and helpers for opening test databases.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/document"
	"github.com/Sjoshi-TYCS/witsml/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewObject returns a 1.x object of typ stored under id.
func NewObject(typ witsml.ObjectType, id witsml.ObjectID) *witsml.DataObject {
	body := document.New(string(typ))
	body.SetAttr("uid", id.Uid)
	body.SetChild("name", id.Uid)
	now := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	return &witsml.DataObject{
		Type:        typ,
		Version:     witsml.DataVersion141,
		ID:          id,
		Body:        body,
		Created:     now,
		LastUpdated: now,
	}
}

func chunk(start, end int64, idx ...float64) witsml.Chunk {
	c := witsml.Chunk{Start: start, End: end}
	for _, i := range idx {
		c.Rows = append(c.Rows, witsml.Row{
			Index:  i,
			Text:   fmt.Sprint(i),
			Values: map[string]string{"GR": fmt.Sprint(i * 10)},
		})
	}
	return c
}

func starts(chunks []witsml.Chunk) []int64 {
	out := make([]int64, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Start)
	}
	return out
}

// RunAdapterTests runs the adapter conformance suite against adapters
// returned by newAdapter, which must return an empty adapter on every call.
func RunAdapterTests(t *testing.T, newAdapter func(t *testing.T) witsml.DataAdapter) {
	ctx := context.Background()

	w1 := witsml.ObjectID{Uid: "w1"}
	b1 := witsml.ObjectID{UidWell: "w1", Uid: "b1"}
	l1 := witsml.ObjectID{UidWell: "w1", UidWellbore: "b1", Uid: "l1"}
	l2 := witsml.ObjectID{UidWell: "w1", UidWellbore: "b2", Uid: "l2"}

	t.Run("AddGet", func(t *testing.T) {
		a := newAdapter(t)
		obj := NewObject(witsml.ObjectTypeWell, w1)
		require.NoError(t, a.Add(ctx, obj, nil))

		got, err := a.Get(ctx, obj.Key())
		require.NoError(t, err)
		assert.Equal(t, "w1", got.Body.ChildText("name"))
		assert.Equal(t, obj.Created, got.Created.UTC())

		err = a.Add(ctx, obj, nil)
		assert.True(t, errors.Is(err, witsml.ErrDataObjectUidAlreadyExists))

		_, err = a.Get(ctx, NewObject(witsml.ObjectTypeWell, witsml.ObjectID{Uid: "none"}).Key())
		assert.True(t, errors.Is(err, witsml.ErrDataObjectNotExist))
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		a := newAdapter(t)
		obj := NewObject(witsml.ObjectTypeWell, w1)
		require.NoError(t, a.Add(ctx, obj, nil))

		got, err := a.Get(ctx, obj.Key())
		require.NoError(t, err)
		got.Body.SetChild("name", "changed")

		again, err := a.Get(ctx, obj.Key())
		require.NoError(t, err)
		assert.Equal(t, "w1", again.Body.ChildText("name"))
	})

	t.Run("Query", func(t *testing.T) {
		a := newAdapter(t)
		require.NoError(t, a.Add(ctx, NewObject(witsml.ObjectTypeWell, w1), nil))
		require.NoError(t, a.Add(ctx, NewObject(witsml.ObjectTypeWellbore, b1), nil))
		require.NoError(t, a.Add(ctx, NewObject(witsml.ObjectTypeLog, l1), nil))
		require.NoError(t, a.Add(ctx, NewObject(witsml.ObjectTypeLog, l2), nil))

		objs, err := a.Query(ctx, witsml.Filter{Family: witsml.Family1x, Type: witsml.ObjectTypeLog})
		require.NoError(t, err)
		require.Len(t, objs, 2)
		assert.Equal(t, "l1", objs[0].ID.Uid)
		assert.Equal(t, "l2", objs[1].ID.Uid)

		objs, err = a.Query(ctx, witsml.Filter{Family: witsml.Family1x, Type: witsml.ObjectTypeLog, ID: witsml.ObjectID{UidWellbore: "b2"}})
		require.NoError(t, err)
		require.Len(t, objs, 1)
		assert.Equal(t, "l2", objs[0].ID.Uid)

		objs, err = a.Query(ctx, witsml.Filter{Family: witsml.Family20, Type: witsml.ObjectTypeLog})
		require.NoError(t, err)
		assert.Empty(t, objs)
	})

	t.Run("Chunks", func(t *testing.T) {
		a := newAdapter(t)
		obj := NewObject(witsml.ObjectTypeLog, l1)
		require.NoError(t, a.Add(ctx, obj, []witsml.Chunk{
			chunk(1000, 2000, 1500),
			chunk(-1000, 0, -5),
			chunk(0, 1000, 1, 2),
		}))

		all, err := a.Chunks(ctx, obj.Key(), nil)
		require.NoError(t, err)
		assert.Equal(t, []int64{-1000, 0, 1000}, starts(all))
		assert.Equal(t, "20", all[1].Rows[1].Values["GR"])

		some, err := a.Chunks(ctx, obj.Key(), func(start, end int64) bool { return start >= 0 })
		require.NoError(t, err)
		assert.Equal(t, []int64{0, 1000}, starts(some))
	})

	t.Run("Update", func(t *testing.T) {
		a := newAdapter(t)
		obj := NewObject(witsml.ObjectTypeLog, l1)
		require.NoError(t, a.Add(ctx, obj, []witsml.Chunk{chunk(0, 1000, 1), chunk(1000, 2000, 1500)}))

		err := a.Update(ctx, obj.Key(), func(txn witsml.Txn) (*witsml.DataObject, error) {
			o := txn.Object()
			o.Body.SetChild("name", "renamed")
			if err := txn.DeleteChunk(0); err != nil {
				return nil, err
			}
			if err := txn.PutChunk(chunk(2000, 3000, 2500)); err != nil {
				return nil, err
			}
			// The txn sees its own writes.
			cs, err := txn.Chunks(nil)
			if err != nil {
				return nil, err
			}
			assert.Equal(t, []int64{1000, 2000}, starts(cs))
			return o, nil
		})
		require.NoError(t, err)

		got, err := a.Get(ctx, obj.Key())
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Body.ChildText("name"))

		cs, err := a.Chunks(ctx, obj.Key(), nil)
		require.NoError(t, err)
		assert.Equal(t, []int64{1000, 2000}, starts(cs))
	})

	t.Run("UpdateAbort", func(t *testing.T) {
		a := newAdapter(t)
		obj := NewObject(witsml.ObjectTypeLog, l1)
		require.NoError(t, a.Add(ctx, obj, []witsml.Chunk{chunk(0, 1000, 1)}))

		failed := witsml.NewError(witsml.ErrMissingRequiredData, "missing")
		err := a.Update(ctx, obj.Key(), func(txn witsml.Txn) (*witsml.DataObject, error) {
			txn.Object().Body.SetChild("name", "renamed")
			if err := txn.DeleteChunk(0); err != nil {
				return nil, err
			}
			return nil, failed
		})
		assert.True(t, errors.Is(err, witsml.ErrMissingRequiredData))

		got, err := a.Get(ctx, obj.Key())
		require.NoError(t, err)
		assert.Equal(t, "l1", got.Body.ChildText("name"))
		cs, err := a.Chunks(ctx, obj.Key(), nil)
		require.NoError(t, err)
		assert.Len(t, cs, 1)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		a := newAdapter(t)
		err := a.Update(ctx, NewObject(witsml.ObjectTypeWell, w1).Key(), func(txn witsml.Txn) (*witsml.DataObject, error) {
			return txn.Object(), nil
		})
		assert.True(t, errors.Is(err, witsml.ErrDataObjectNotExist))
	})

	t.Run("ConcurrentUpdates", func(t *testing.T) {
		a := newAdapter(t)
		obj := NewObject(witsml.ObjectTypeWell, w1)
		obj.Body.SetChild("count", "0")
		require.NoError(t, a.Add(ctx, obj, nil))

		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := a.Update(ctx, obj.Key(), func(txn witsml.Txn) (*witsml.DataObject, error) {
					o := txn.Object()
					var c int
					fmt.Sscan(o.Body.ChildText("count"), &c)
					o.Body.SetChild("count", fmt.Sprint(c+1))
					return o, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := a.Get(ctx, obj.Key())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(n), got.Body.ChildText("count"))
	})

	t.Run("Delete", func(t *testing.T) {
		a := newAdapter(t)
		obj := NewObject(witsml.ObjectTypeLog, l1)
		require.NoError(t, a.Add(ctx, obj, []witsml.Chunk{chunk(0, 1000, 1)}))
		require.NoError(t, a.Delete(ctx, obj.Key()))

		_, err := a.Get(ctx, obj.Key())
		assert.True(t, errors.Is(err, witsml.ErrDataObjectNotExist))
		assert.True(t, errors.Is(a.Delete(ctx, obj.Key()), witsml.ErrDataObjectNotExist))

		// A re-added object starts without chunks.
		require.NoError(t, a.Add(ctx, obj, nil))
		cs, err := a.Chunks(ctx, obj.Key(), nil)
		require.NoError(t, err)
		assert.Empty(t, cs)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		a := newAdapter(t)
		b, ok := a.(witsml.BatchDeleter)
		if !ok {
			t.Skip("adapter has no batch delete")
		}
		well := NewObject(witsml.ObjectTypeWell, w1)
		wellbore := NewObject(witsml.ObjectTypeWellbore, b1)
		log := NewObject(witsml.ObjectTypeLog, l1)
		require.NoError(t, a.Add(ctx, well, nil))
		require.NoError(t, a.Add(ctx, wellbore, nil))
		require.NoError(t, a.Add(ctx, log, []witsml.Chunk{chunk(0, 1000, 1)}))

		// A missing key fails the batch and leaves every object in place.
		missing := NewObject(witsml.ObjectTypeLog, l2).Key()
		err := b.DeleteAll(ctx, []witsml.Key{log.Key(), missing, wellbore.Key(), well.Key()})
		assert.True(t, errors.Is(err, witsml.ErrDataObjectNotExist))
		for _, obj := range []*witsml.DataObject{well, wellbore, log} {
			_, err := a.Get(ctx, obj.Key())
			assert.NoError(t, err, obj.Key().String())
		}
		cs, err := a.Chunks(ctx, log.Key(), nil)
		require.NoError(t, err)
		assert.Len(t, cs, 1)

		require.NoError(t, b.DeleteAll(ctx, []witsml.Key{log.Key(), wellbore.Key(), well.Key()}))
		for _, obj := range []*witsml.DataObject{well, wellbore, log} {
			_, err := a.Get(ctx, obj.Key())
			assert.True(t, errors.Is(err, witsml.ErrDataObjectNotExist), obj.Key().String())
		}
	})
}
