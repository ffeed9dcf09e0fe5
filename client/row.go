package client

import "github.com/sqlstream/mssql/mapper"

// Row is an ordered mapping from column name to value. Column order is
// the result set order. The protocol does not require unique column
// names; a duplicate name silently overwrites the earlier value while
// keeping the first position.
type Row struct {
	names  []string
	values map[string]mapper.Value
}

func newRow(capacity int) *Row {
	return &Row{
		names:  make([]string, 0, capacity),
		values: make(map[string]mapper.Value, capacity),
	}
}

func (r *Row) set(name string, v mapper.Value) {
	if _, seen := r.values[name]; !seen {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Columns returns the column names in result set order. The returned
// slice must not be modified.
func (r *Row) Columns() []string { return r.names }

// Get returns the value of the named column.
func (r *Row) Get(name string) (mapper.Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.names) }
