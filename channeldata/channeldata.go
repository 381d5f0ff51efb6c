// Package channeldata handles index series such as log data: parsing and
// rendering rows, merging appended rows, range filtering and partitioning
// rows into fixed-width chunks for storage.
package channeldata

import (
	"sort"
	"strings"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/ranges"
)

// Layout describes the columns of a series. The index column is first.
type Layout struct {
	Mnemonics  []string
	Units      []string
	IsTime     bool
	Increasing bool
}

// IndexMnemonic returns the index column, or "".
func (l Layout) IndexMnemonic() string {
	if len(l.Mnemonics) == 0 {
		return ""
	}
	return l.Mnemonics[0]
}

// Column returns the position of mnemonic, or -1.
func (l Layout) Column(mnemonic string) int {
	for i, m := range l.Mnemonics {
		if m == mnemonic {
			return i
		}
	}
	return -1
}

// Unit returns the unit of mnemonic, or "".
func (l Layout) Unit(mnemonic string) string {
	if i := l.Column(mnemonic); i >= 0 && i < len(l.Units) {
		return l.Units[i]
	}
	return ""
}

// Check fails when the layout has no index column or repeats a mnemonic.
func (l Layout) Check() error {
	if l.IndexMnemonic() == "" {
		return witsml.NewError(witsml.ErrIndexCurveNotFound, "series has no index curve")
	}
	seen := make(map[string]struct{}, len(l.Mnemonics))
	for _, m := range l.Mnemonics {
		if _, ok := seen[m]; ok {
			return witsml.NewError(witsml.ErrDuplicateMnemonics, "mnemonic '%s' is repeated", m)
		}
		seen[m] = struct{}{}
	}
	return nil
}

// Select returns the layout restricted to mnemonics, always keeping the
// index column first. Unknown mnemonics are ignored. An empty selection
// returns l unchanged.
func (l Layout) Select(mnemonics []string) Layout {
	if len(mnemonics) == 0 {
		return l
	}
	want := make(map[string]bool, len(mnemonics))
	for _, m := range mnemonics {
		want[m] = true
	}
	out := Layout{IsTime: l.IsTime, Increasing: l.Increasing}
	for i, m := range l.Mnemonics {
		if i > 0 && !want[m] {
			continue
		}
		out.Mnemonics = append(out.Mnemonics, m)
		if i < len(l.Units) {
			out.Units = append(out.Units, l.Units[i])
		}
	}
	return out
}

// ParseIndex parses an index value of the series.
func (l Layout) ParseIndex(s string) (float64, bool) {
	if l.IsTime {
		v, _, ok := ranges.ParseTime(s)
		return v, ok
	}
	return ranges.ParseDepth(s)
}

// ParseRows parses delimited data lines. Columns follow mnemonics, the first
// being the index.
func ParseRows(lines []string, mnemonics []string, l Layout) ([]witsml.Row, error) {
	rows := make([]witsml.Row, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) > len(mnemonics) {
			return nil, witsml.NewError(witsml.ErrInputTemplateNonConforming, "data row has %d values for %d mnemonics", len(fields), len(mnemonics))
		}
		row, err := newRow(fields, mnemonics, l)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func newRow(fields []string, mnemonics []string, l Layout) (witsml.Row, error) {
	text := strings.TrimSpace(fields[0])
	idx, ok := l.ParseIndex(text)
	if !ok {
		return witsml.Row{}, witsml.NewError(witsml.ErrInputTemplateNonConforming, "invalid index value '%s'", text)
	}
	row := witsml.Row{Index: idx, Text: text, Values: make(map[string]string, len(fields)-1)}
	for i := 1; i < len(fields); i++ {
		if v := strings.TrimSpace(fields[i]); v != "" {
			row.Values[mnemonics[i]] = v
		}
	}
	return row, nil
}

// FormatRows renders rows as delimited lines over the layout's columns. Rows
// holding no value for any selected data column are skipped.
func FormatRows(rows []witsml.Row, l Layout) []string {
	out := make([]string, 0, len(rows))
	fields := make([]string, len(l.Mnemonics))
	for _, row := range rows {
		if !hasAny(row, l.Mnemonics) {
			continue
		}
		fields[0] = row.Text
		for i := 1; i < len(l.Mnemonics); i++ {
			fields[i] = row.Values[l.Mnemonics[i]]
		}
		out = append(out, strings.Join(fields, ","))
	}
	return out
}

func hasAny(row witsml.Row, mnemonics []string) bool {
	if len(mnemonics) <= 1 {
		return true
	}
	for _, m := range mnemonics[1:] {
		if _, ok := row.Values[m]; ok {
			return true
		}
	}
	return false
}

// Sort orders rows by index in the series direction.
func Sort(rows []witsml.Row, increasing bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if increasing {
			return rows[i].Index < rows[j].Index
		}
		return rows[i].Index > rows[j].Index
	})
}

// Merge applies update rows to existing. A row at an existing index
// overwrites the values it carries; other rows are inserted. The result is
// sorted.
func Merge(existing, update []witsml.Row, increasing bool) []witsml.Row {
	out := make([]witsml.Row, 0, len(existing)+len(update))
	pos := make(map[float64]int, len(existing))
	for _, row := range existing {
		pos[row.Index] = len(out)
		out = append(out, cloneRow(row))
	}
	for _, u := range update {
		i, ok := pos[u.Index]
		if !ok {
			pos[u.Index] = len(out)
			out = append(out, cloneRow(u))
			continue
		}
		out[i].Text = u.Text
		for m, v := range u.Values {
			out[i].Values[m] = v
		}
	}
	Sort(out, increasing)
	return out
}

func cloneRow(r witsml.Row) witsml.Row {
	vals := make(map[string]string, len(r.Values))
	for m, v := range r.Values {
		vals[m] = v
	}
	r.Values = vals
	return r
}

// Filter returns the rows selected by r. Open bounds are unbounded.
func Filter(rows []witsml.Row, r ranges.Range, increasing bool) []witsml.Row {
	if r.IsOpen() {
		return rows
	}
	var out []witsml.Row
	for _, row := range rows {
		if r.Selects(row.Index, increasing) {
			out = append(out, row)
		}
	}
	return out
}

// DeleteRange removes the rows selected by r. An open range removes nothing.
func DeleteRange(rows []witsml.Row, r ranges.Range, increasing bool) []witsml.Row {
	if r.IsOpen() {
		return rows
	}
	var out []witsml.Row
	for _, row := range rows {
		if !r.Selects(row.Index, increasing) {
			out = append(out, row)
		}
	}
	return out
}

// DropColumns removes the values of mnemonics. Rows left without values are
// removed.
func DropColumns(rows []witsml.Row, mnemonics ...string) []witsml.Row {
	var out []witsml.Row
	for _, row := range rows {
		row = cloneRow(row)
		for _, m := range mnemonics {
			delete(row.Values, m)
		}
		if len(row.Values) > 0 {
			out = append(out, row)
		}
	}
	return out
}

// Extent returns the first and last index of sorted rows.
func Extent(rows []witsml.Row) (first, last *witsml.Row) {
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], &rows[len(rows)-1]
}

// Points returns the number of data points in rows, counting the index.
func Points(rows []witsml.Row) int {
	n := 0
	for _, row := range rows {
		n += 1 + len(row.Values)
	}
	return n
}

// Partition splits sorted rows into chunks of the given width.
func Partition(rows []witsml.Row, size int64, increasing bool) []witsml.Chunk {
	var out []witsml.Chunk
	for _, row := range rows {
		n := len(out)
		if n > 0 {
			c := ranges.Chunk{Start: out[n-1].Start, End: out[n-1].End}
			if c.Holds(row.Index, increasing) {
				out[n-1].Rows = append(out[n-1].Rows, row)
				continue
			}
		}
		c := ranges.ComputeRange(row.Index, size, increasing)
		out = append(out, witsml.Chunk{Start: c.Start, End: c.End, Rows: []witsml.Row{row}})
	}
	return out
}

// Collect returns the rows of chunks in index order.
func Collect(chunks []witsml.Chunk, increasing bool) []witsml.Row {
	var rows []witsml.Row
	for _, c := range chunks {
		rows = append(rows, c.Rows...)
	}
	Sort(rows, increasing)
	return rows
}

// Keep returns the chunk filter for reads over r, or nil for an open range.
func Keep(r ranges.Range, increasing bool) witsml.ChunkFilter {
	if r.IsOpen() {
		return nil
	}
	return func(start, end int64) bool {
		return r.Overlaps(ranges.Chunk{Start: start, End: end}, increasing)
	}
}
