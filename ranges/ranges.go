// Package ranges computes index-range relations and chunk boundaries for
// depth or time indexed series, in either direction.
package ranges

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Range is an interval over a depth or time axis. Time values are unix
// seconds; Offset keeps the time zone of the parsed input so values can be
// formatted back the way they came in. A nil bound is open.
type Range struct {
	Start  *float64
	End    *float64
	Offset *time.Duration
}

// Chunk is a chunk-aligned range. End-Start equals the chunk size, negated
// for decreasing series.
type Chunk struct {
	Start int64
	End   int64
}

// timeLayouts are tried in order when parsing time bounds.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse builds a Range from start and end values. Bounds that do not parse
// are left open rather than reported as errors.
func Parse(start, end string, isTime bool) Range {
	var r Range
	if isTime {
		if v, off, ok := ParseTime(start); ok {
			r.Start, r.Offset = &v, &off
		}
		if v, off, ok := ParseTime(end); ok {
			r.End, r.Offset = &v, &off
		}
		return r
	}
	if v, ok := ParseDepth(start); ok {
		r.Start = &v
	}
	if v, ok := ParseDepth(end); ok {
		r.End = &v
	}
	return r
}

// ParseDepth parses a numeric index value.
func ParseDepth(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseTime parses a date-time index value into unix seconds, including the
// fractional part, and its zone offset.
func ParseTime(s string) (float64, time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		_, off := t.Zone()
		secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
		return secs, time.Duration(off) * time.Second, true
	}
	return 0, 0, false
}

// FormatTime formats unix seconds in the zone given by offset.
func FormatTime(secs float64, offset time.Duration) string {
	whole := math.Floor(secs)
	nanos := int64(math.Round((secs - whole) * 1e9))
	t := time.Unix(int64(whole), nanos)
	if offset == 0 {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.In(time.FixedZone("", int(offset/time.Second))).Format(time.RFC3339Nano)
}

// FormatDepth formats a depth value without a trailing exponent or zeros.
func FormatDepth(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// HasStart reports whether the range has a start bound.
func (r Range) HasStart() bool { return r.Start != nil }

// HasEnd reports whether the range has an end bound.
func (r Range) HasEnd() bool { return r.End != nil }

// IsOpen reports whether both bounds are absent.
func (r Range) IsOpen() bool { return r.Start == nil && r.End == nil }

// StartsAfter reports whether the range starts after value in the series
// direction. An open start never constrains.
func (r Range) StartsAfter(value float64, increasing, inclusive bool) bool {
	if r.Start == nil {
		return false
	}
	start := *r.Start
	if increasing {
		if inclusive {
			return value <= start
		}
		return value < start
	}
	if inclusive {
		return value >= start
	}
	return value > start
}

// EndsBefore reports whether the range ends before value in the series
// direction. An open end never constrains.
func (r Range) EndsBefore(value float64, increasing, inclusive bool) bool {
	if r.End == nil {
		return false
	}
	end := *r.End
	if increasing {
		if inclusive {
			return value >= end
		}
		return value > end
	}
	if inclusive {
		return value <= end
	}
	return value < end
}

// Contains reports whether value lies within both bounds. It is false when
// either bound is open.
func (r Range) Contains(value float64, increasing bool) bool {
	if r.Start == nil || r.End == nil {
		return false
	}
	if increasing {
		return value >= *r.Start && value <= *r.End
	}
	return value <= *r.Start && value >= *r.End
}

// Selects reports whether value is inside the range with open bounds treated
// as unbounded. It is what range-scoped reads filter with.
func (r Range) Selects(value float64, increasing bool) bool {
	return !r.StartsAfter(value, increasing, false) && !r.EndsBefore(value, increasing, false)
}

// Overlaps reports whether any part of chunk c lies inside the range.
func (r Range) Overlaps(c Chunk, increasing bool) bool {
	lo, hi := float64(c.Start), float64(c.End)
	// Chunks are half open: the chunk end belongs to the next chunk.
	if increasing {
		if r.Start != nil && hi <= *r.Start {
			return false
		}
		if r.End != nil && lo > *r.End {
			return false
		}
		return true
	}
	if r.Start != nil && hi >= *r.Start {
		return false
	}
	if r.End != nil && lo < *r.End {
		return false
	}
	return true
}

// ComputeRange returns the chunk holding index. Increasing series use
// floor(index/size) as the chunk number and decreasing series use ceil, so
// each index maps to exactly one chunk.
func ComputeRange(index float64, size int64, increasing bool) Chunk {
	q := index / float64(size)
	if increasing {
		k := int64(math.Floor(q))
		return Chunk{Start: k * size, End: k*size + size}
	}
	k := int64(math.Ceil(q))
	return Chunk{Start: k * size, End: k*size - size}
}

// Holds reports whether index falls in c, which is half open at End.
func (c Chunk) Holds(index float64, increasing bool) bool {
	if increasing {
		return index >= float64(c.Start) && index < float64(c.End)
	}
	return index <= float64(c.Start) && index > float64(c.End)
}
