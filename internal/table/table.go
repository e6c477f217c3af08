// Package table is the flat, column-sparse form of the unified record table
// used at the I/O boundary.
package table

import "sort"

// Row maps a column name to its cell. Missing keys and empty strings are
// both absent values.
type Row map[string]string

// Table is an ordered set of columns and rows of string cells.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// AllRows returns the rows, or nil for a nil table.
func (t *Table) AllRows() []Row {
	if t == nil {
		return nil
	}
	return t.Rows
}

// HasColumn reports whether col is part of the header.
func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// AddColumns appends the given columns that are not yet in the header.
func (t *Table) AddColumns(cols ...string) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			t.Columns = append(t.Columns, c)
		}
	}
}

// Append adds row and extends the header with any non-empty columns it
// introduces. New columns follow order when they appear in it; the rest are
// appended in sorted order.
func (t *Table) Append(row Row, order []string) {
	var added []string
	seen := make(map[string]bool)
	for _, c := range order {
		if row[c] != "" && !t.HasColumn(c) {
			added = append(added, c)
			seen[c] = true
		}
	}
	var rest []string
	for c, v := range row {
		if v != "" && !seen[c] && !t.HasColumn(c) {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	t.AddColumns(append(added, rest...)...)
	t.Rows = append(t.Rows, row)
}

// Record returns row i as a slice aligned with Columns.
func (t *Table) Record(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = t.Rows[i][c]
	}
	return out
}
