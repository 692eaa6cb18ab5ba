package types

import "strings"

// Row is one parsed data line: an ordered mapping from header to trimmed cell value.
// Number is the 1-based data-row index, the header line excluded.
type Row struct {
	Number  int
	headers []string
	values  map[string]string
}

// NewRow zips headers to cells. Cells are trimmed and missing trailing cells become "".
// When a header repeats, the last cell wins but the header keeps its first position.
func NewRow(number int, headers, cells []string) Row {
	r := Row{
		Number:  number,
		headers: make([]string, 0, len(headers)),
		values:  make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}
		if _, seen := r.values[h]; !seen {
			r.headers = append(r.headers, h)
		}
		r.values[h] = v
	}
	return r
}

// Get returns the value for a column, or "" if the column is absent
func (r Row) Get(name string) string {
	return r.values[name]
}

// Lookup returns the value for a column and whether the column exists
func (r Row) Lookup(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// First returns the first non-empty value among the given column names
func (r Row) First(names ...string) string {
	for _, n := range names {
		if v := r.values[n]; v != "" {
			return v
		}
	}
	return ""
}

// Has reports whether the column exists in the row
func (r Row) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Headers returns a copy of the row's column names in source order
func (r Row) Headers() []string {
	out := make([]string, len(r.headers))
	copy(out, r.headers)
	return out
}

// Len returns the number of columns
func (r Row) Len() int {
	return len(r.headers)
}

// Map returns a copy of the row as a plain map
func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Data returns the row in the shape carried by ImportError.RowData
func (r Row) Data() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Values returns the cells in header order
func (r Row) Values() []string {
	out := make([]string, len(r.headers))
	for i, h := range r.headers {
		out[i] = r.values[h]
	}
	return out
}
