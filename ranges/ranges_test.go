package ranges_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml/ranges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	t.Run("Depth", func(t *testing.T) {
		r := ranges.Parse("10.5", "20", false)
		require.True(t, r.HasStart())
		require.True(t, r.HasEnd())
		assert.Equal(t, 10.5, *r.Start)
		assert.Equal(t, 20.0, *r.End)
		assert.Nil(t, r.Offset)
	})

	t.Run("Time", func(t *testing.T) {
		r := ranges.Parse("2016-01-01T00:00:00Z", "2016-01-01T05:00:00+05:00", true)
		require.True(t, r.HasStart())
		require.True(t, r.HasEnd())
		assert.Equal(t, 1451606400.0, *r.Start)
		assert.Equal(t, 1451606400.0, *r.End)
		require.NotNil(t, r.Offset)
		assert.Equal(t, 5*time.Hour, *r.Offset)
	})

	t.Run("UnparsableIsOpen", func(t *testing.T) {
		r := ranges.Parse("abc", "", false)
		assert.True(t, r.IsOpen())
		r = ranges.Parse("yesterday", "2016-01-01T00:00:00Z", true)
		assert.False(t, r.HasStart())
		assert.True(t, r.HasEnd())
	})

	t.Run("FormatTime", func(t *testing.T) {
		v, off, ok := ranges.ParseTime("2016-03-01T10:30:00.5-06:00")
		require.True(t, ok)
		assert.Equal(t, "2016-03-01T10:30:00.5-06:00", ranges.FormatTime(v, off))
		assert.Equal(t, "2016-03-01T16:30:00.5Z", ranges.FormatTime(v, 0))
	})

	assert.Equal(t, "1500.25", ranges.FormatDepth(1500.25))
}

func TestStartsAfterEndsBefore(t *testing.T) {
	r := ranges.Range{Start: ptr(10), End: ptr(20)}

	assert.True(t, r.StartsAfter(5, true, false))
	assert.False(t, r.StartsAfter(10, true, false))
	assert.True(t, r.StartsAfter(10, true, true))
	assert.False(t, r.StartsAfter(15, true, false))

	assert.True(t, r.EndsBefore(25, true, false))
	assert.False(t, r.EndsBefore(20, true, false))
	assert.True(t, r.EndsBefore(20, true, true))

	// Decreasing flips the comparisons.
	d := ranges.Range{Start: ptr(20), End: ptr(10)}
	assert.True(t, d.StartsAfter(25, false, false))
	assert.False(t, d.StartsAfter(15, false, false))
	assert.True(t, d.EndsBefore(5, false, false))
	assert.True(t, d.EndsBefore(10, false, true))

	open := ranges.Range{}
	assert.False(t, open.StartsAfter(-1e9, true, true))
	assert.False(t, open.EndsBefore(1e9, true, true))
}

func TestContains(t *testing.T) {
	r := ranges.Range{Start: ptr(10), End: ptr(20)}
	assert.True(t, r.Contains(10, true))
	assert.True(t, r.Contains(20, true))
	assert.False(t, r.Contains(21, true))

	d := ranges.Range{Start: ptr(20), End: ptr(10)}
	assert.True(t, d.Contains(15, false))
	assert.False(t, d.Contains(15, true))

	for _, v := range []float64{-1e12, -1, 0, 1, 1e12, math.MaxFloat64} {
		assert.False(t, ranges.Range{}.Contains(v, true))
		assert.False(t, ranges.Range{}.Contains(v, false))
		assert.False(t, ranges.Range{Start: ptr(0)}.Contains(v, true))
	}

	assert.True(t, ranges.Range{Start: ptr(10)}.Selects(1e6, true))
	assert.False(t, ranges.Range{Start: ptr(10)}.Selects(9, true))
	assert.True(t, ranges.Range{}.Selects(9, false))
}

func TestComputeRange(t *testing.T) {
	for _, size := range []int64{1, 7, 100, 1000, 86400} {
		for _, i := range []float64{-2500.5, -1000, -1, 0, 0.5, 1, 999.999, 1000, 1234.5, 86399, 1.5e9} {
			t.Run(fmt.Sprintf("%d/%v", size, i), func(t *testing.T) {
				c := ranges.ComputeRange(i, size, true)
				k := int64(math.Floor(i / float64(size)))
				assert.Equal(t, k*size, c.Start)
				assert.Equal(t, k*size+size, c.End)
				assert.True(t, c.Holds(i, true))

				d := ranges.ComputeRange(i, size, false)
				assert.Equal(t, -size, d.End-d.Start)
				assert.Equal(t, int64(0), d.Start%size)
				assert.True(t, d.Holds(i, false))
			})
		}
	}

	assert.Equal(t, ranges.Chunk{Start: 1000, End: 2000}, ranges.ComputeRange(1500, 1000, true))
	assert.Equal(t, ranges.Chunk{Start: 2000, End: 1000}, ranges.ComputeRange(1500, 1000, false))
}

func TestOverlaps(t *testing.T) {
	r := ranges.Range{Start: ptr(1500), End: ptr(2500)}
	assert.False(t, r.Overlaps(ranges.Chunk{Start: 0, End: 1000}, true))
	assert.True(t, r.Overlaps(ranges.Chunk{Start: 1000, End: 2000}, true))
	assert.True(t, r.Overlaps(ranges.Chunk{Start: 2000, End: 3000}, true))
	assert.False(t, r.Overlaps(ranges.Chunk{Start: 3000, End: 4000}, true))

	d := ranges.Range{Start: ptr(2500), End: ptr(1500)}
	assert.False(t, d.Overlaps(ranges.Chunk{Start: 4000, End: 3000}, false))
	assert.True(t, d.Overlaps(ranges.Chunk{Start: 3000, End: 2000}, false))
	assert.True(t, d.Overlaps(ranges.Chunk{Start: 2000, End: 1000}, false))
	assert.False(t, d.Overlaps(ranges.Chunk{Start: 1000, End: 0}, false))

	assert.True(t, ranges.Range{}.Overlaps(ranges.Chunk{Start: 0, End: 1}, true))
}
