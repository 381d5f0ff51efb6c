package channeldata

import (
	"encoding/json"
	"strconv"

	"github.com/Sjoshi-TYCS/witsml"
)

// ParseJSON parses a channel set data array, [[index, v1, v2, ...], ...].
// Columns follow mnemonics, the first being the index.
func ParseJSON(data string, mnemonics []string, l Layout) ([]witsml.Row, error) {
	var raw [][]interface{}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, witsml.NewError(witsml.ErrInputTemplateNonConforming, "invalid channel data: %v", err)
	}
	rows := make([]witsml.Row, 0, len(raw))
	for _, values := range raw {
		if len(values) == 0 {
			continue
		}
		if len(values) > len(mnemonics) {
			return nil, witsml.NewError(witsml.ErrInputTemplateNonConforming, "data row has %d values for %d mnemonics", len(values), len(mnemonics))
		}
		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = jsonText(v)
		}
		row, err := newRow(fields, mnemonics, l)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func jsonText(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// FormatJSON renders rows as a channel set data array. Numeric values are
// written as numbers, everything else as strings, and missing values as
// null.
func FormatJSON(rows []witsml.Row, l Layout) string {
	out := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		if !hasAny(row, l.Mnemonics) {
			continue
		}
		values := make([]interface{}, len(l.Mnemonics))
		values[0] = jsonValue(row.Text)
		for i := 1; i < len(l.Mnemonics); i++ {
			if v, ok := row.Values[l.Mnemonics[i]]; ok {
				values[i] = jsonValue(v)
			}
		}
		out = append(out, values)
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func jsonValue(s string) interface{} {
	if _, err := strconv.ParseFloat(s, 64); err == nil && json.Valid([]byte(s)) {
		return json.Number(s)
	}
	return s
}
