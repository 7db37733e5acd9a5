package exporters

import (
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

const (
	keySeparator  = "_"
	listSeparator = ", "
)

// decodeAPI reads back exported JSON keeping numbers exactly as written.
var decodeAPI = jsoniter.Config{UseNumber: true}.Froze()

// compactAPI renders nested lists of objects inside a single cell.
var compactAPI = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

// tabular is data flattened to one row per record
type tabular struct {
	Header []string
	Rows   [][]string
}

func (t tabular) empty() bool {
	return len(t.Rows) == 0
}

// tabulate flattens a record or a list of records. Nested objects become
// prefix_key columns, lists of scalars are joined with ", " and lists of
// objects are kept as JSON. Columns are the sorted union of all keys.
// Anything that is not an object or a list of objects has no rows.
func tabulate(data any) (tabular, error) {
	raw, err := jsonAPI.Marshal(data)
	if err != nil {
		return tabular{}, fmt.Errorf("failed to encode records: %w", err)
	}

	var decoded any
	if err := decodeAPI.Unmarshal(raw, &decoded); err != nil {
		return tabular{}, fmt.Errorf("failed to decode records: %w", err)
	}

	var records []map[string]any
	switch v := decoded.(type) {
	case map[string]any:
		records = append(records, v)
	case []any:
		for _, item := range v {
			if record, ok := item.(map[string]any); ok {
				records = append(records, record)
			}
		}
	}

	flat := make([]map[string]string, 0, len(records))
	keys := map[string]struct{}{}
	for _, record := range records {
		row := map[string]string{}
		flattenInto(row, "", record)
		for key := range row {
			keys[key] = struct{}{}
		}
		flat = append(flat, row)
	}

	header := make([]string, 0, len(keys))
	for key := range keys {
		header = append(header, key)
	}
	sort.Strings(header)

	rows := make([][]string, 0, len(flat))
	for _, record := range flat {
		row := make([]string, len(header))
		for i, key := range header {
			row[i] = record[key]
		}
		rows = append(rows, row)
	}

	return tabular{Header: header, Rows: rows}, nil
}

func flattenInto(out map[string]string, prefix string, record map[string]any) {
	for key, value := range record {
		if prefix != "" {
			key = prefix + keySeparator + key
		}

		switch v := value.(type) {
		case map[string]any:
			flattenInto(out, key, v)
		case []any:
			out[key] = formatList(v)
		default:
			out[key] = formatCell(v)
		}
	}
}

func formatList(values []any) string {
	if len(values) == 0 {
		return ""
	}
	if _, ok := values[0].(map[string]any); ok {
		blob, err := compactAPI.MarshalToString(values)
		if err != nil {
			return fmt.Sprint(values)
		}
		return blob
	}

	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, formatCell(v))
	}
	return strings.Join(parts, listSeparator)
}

// formatCell renders null as empty and booleans in lowercase.
func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return v.String()
	case map[string]any, []any:
		blob, err := compactAPI.MarshalToString(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return blob
	default:
		return fmt.Sprint(v)
	}
}
