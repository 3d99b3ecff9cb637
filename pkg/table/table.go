// Package table provides the in-memory tabular type used throughout the
// post-processing library: an ordered set of named columns aligned by a
// common row count, where each column is either a categorical identifier
// column (strings) or a numeric value column (float64).
//
// A subset of the column names, in order, forms the table's row index.
// Index columns stay stored in the table and are only flagged, so moving
// columns in and out of the index is cheap. Operations never mutate their
// receiver; they return a new Table that shares column data where possible.
package table

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// Sentinel errors for the conditions callers are expected to branch on.
var (
	// ErrColumnNotFound reports a lookup of a column name the table does not have.
	ErrColumnNotFound = errors.New("column not found")
	// ErrLengthMismatch reports columns of unequal row counts in one table.
	ErrLengthMismatch = errors.New("column length mismatch")
	// ErrDuplicateColumn reports two columns sharing a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrNotIndexed reports an aligned operation on a table with no row index.
	ErrNotIndexed = errors.New("table has no row index")
	// ErrColumnKind reports a value column where an identifier column is
	// required, or vice versa.
	ErrColumnKind = errors.New("wrong column kind")
)

// Column is a single named column: either an identifier column holding
// categorical labels, or a value column holding measurements.
type Column struct {
	name   string
	labels []string
	values []float64
}

// Strings returns a new identifier column.
func Strings(name string, labels ...string) *Column {
	return &Column{name: name, labels: labels}
}

// Floats returns a new value column.
func Floats(name string, values ...float64) *Column {
	return &Column{name: name, values: values}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// IsValue reports whether the column holds numeric values.
func (c *Column) IsValue() bool { return c.labels == nil }

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.IsValue() {
		return len(c.values)
	}
	return len(c.labels)
}

// Labels returns the label data of an identifier column, or nil for a
// value column. The returned slice is shared; callers must not modify it.
func (c *Column) Labels() []string { return c.labels }

// Values returns the numeric data of a value column, or nil for an
// identifier column. The returned slice is shared; callers must not modify it.
func (c *Column) Values() []float64 { return c.values }

// cell returns the row's content formatted as a string, used for group
// and alignment keys as well as rendering.
func (c *Column) cell(row int) string {
	if c.IsValue() {
		return strconv.FormatFloat(c.values[row], 'g', -1, 64)
	}
	return c.labels[row]
}

// take returns a new column containing only the given rows, in order.
func (c *Column) take(rows []int) *Column {
	if c.IsValue() {
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = c.values[r]
		}
		return &Column{name: c.name, values: vals}
	}
	labs := make([]string, len(rows))
	for i, r := range rows {
		labs[i] = c.labels[r]
	}
	return &Column{name: c.name, labels: labs}
}

// rename returns a copy of the column under a new name, sharing data.
func (c *Column) rename(name string) *Column {
	return &Column{name: name, labels: c.labels, values: c.values}
}

// Table is an ordered set of named columns aligned by a common row count,
// with an optional row index formed by a subset of the column names.
type Table struct {
	columns []*Column
	index   []string // column names serving as index levels, in order
	rows    int
}

// New returns a table over the given columns. All columns must have the
// same length and unique names.
func New(cols ...*Column) (*Table, error) {
	t := &Table{}
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if seen[c.name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.name)
		}
		seen[c.name] = true
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d",
				ErrLengthMismatch, c.name, c.Len(), t.rows)
		}
	}
	t.columns = slices.Clone(cols)
	return t, nil
}

// shallow returns a copy of the table sharing all column data.
func (t *Table) shallow() *Table {
	return &Table{
		columns: slices.Clone(t.columns),
		index:   slices.Clone(t.index),
		rows:    t.rows,
	}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// Column returns the column with the given name, whether it is an
// ordinary column or an index level.
func (t *Table) Column(name string) (*Column, error) {
	for _, c := range t.columns {
		if c.name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// HasColumn reports whether the table has a column or index level with
// the given name.
func (t *Table) HasColumn(name string) bool {
	_, err := t.Column(name)
	return err == nil
}

// IndexNames returns the names of the index levels, in order.
// The result is nil for a flat table.
func (t *Table) IndexNames() []string { return slices.Clone(t.index) }

// isIndex reports whether name is currently an index level.
func (t *Table) isIndex(name string) bool { return slices.Contains(t.index, name) }

// ColumnNames returns the names of the ordinary (non-index) columns,
// in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !t.isIndex(c.name) {
			names = append(names, c.name)
		}
	}
	return names
}

// SetIndex returns a table whose row index is exactly the given columns,
// in the given order. Any previous index levels become ordinary columns.
func (t *Table) SetIndex(names ...string) (*Table, error) {
	for _, n := range names {
		if !t.HasColumn(n) {
			return nil, fmt.Errorf("set index: %w: %q", ErrColumnNotFound, n)
		}
	}
	out := t.shallow()
	out.index = slices.Clone(names)
	return out, nil
}

// AppendIndex returns a table with the given columns appended to the
// existing index levels.
func (t *Table) AppendIndex(names ...string) (*Table, error) {
	for _, n := range names {
		if !t.HasColumn(n) {
			return nil, fmt.Errorf("append index: %w: %q", ErrColumnNotFound, n)
		}
		if t.isIndex(n) {
			return nil, fmt.Errorf("append index: %q is already an index level", n)
		}
	}
	out := t.shallow()
	out.index = append(out.index, names...)
	return out, nil
}

// ResetIndex returns a flat table with the former index levels moved to
// the front as ordinary columns, preserving level order.
func (t *Table) ResetIndex() *Table {
	if len(t.index) == 0 {
		return t
	}
	out := &Table{rows: t.rows}
	out.columns = make([]*Column, 0, len(t.columns))
	for _, n := range t.index {
		c, _ := t.Column(n)
		out.columns = append(out.columns, c)
	}
	for _, c := range t.columns {
		if !t.isIndex(c.name) {
			out.columns = append(out.columns, c)
		}
	}
	return out
}

// Select returns a table whose ordinary columns are exactly the named
// ones, in the given order. Index levels are kept.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{rows: t.rows, index: slices.Clone(t.index)}
	for _, n := range t.index {
		c, _ := t.Column(n)
		out.columns = append(out.columns, c)
	}
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, fmt.Errorf("select: %w", err)
		}
		if t.isIndex(n) {
			return nil, fmt.Errorf("select: %q is an index level", n)
		}
		out.columns = append(out.columns, c)
	}
	return out, nil
}

// Rename returns a table with the named column renamed, keeping its
// position and index membership.
func (t *Table) Rename(from, to string) (*Table, error) {
	if !t.HasColumn(from) {
		return nil, fmt.Errorf("rename: %w: %q", ErrColumnNotFound, from)
	}
	if from == to {
		return t, nil
	}
	if t.HasColumn(to) {
		return nil, fmt.Errorf("rename: %w: %q", ErrDuplicateColumn, to)
	}
	out := t.shallow()
	for i, c := range out.columns {
		if c.name == from {
			out.columns[i] = c.rename(to)
		}
	}
	for i, n := range out.index {
		if n == from {
			out.index[i] = to
		}
	}
	return out, nil
}

// filter returns a table with only the rows for which keep returns true
// on the named identifier column.
func (t *Table) filter(name string, keep func(string) bool) (*Table, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	if c.IsValue() {
		return nil, fmt.Errorf("filter: %w: %q is a value column", ErrColumnKind, name)
	}
	var rows []int
	for i, lab := range c.labels {
		if keep(lab) {
			rows = append(rows, i)
		}
	}
	return t.takeRows(rows), nil
}

// FilterEqual returns the rows whose identifier column equals label.
func (t *Table) FilterEqual(name, label string) (*Table, error) {
	return t.filter(name, func(s string) bool { return s == label })
}

// FilterNotEqual returns the rows whose identifier column differs from label.
func (t *Table) FilterNotEqual(name, label string) (*Table, error) {
	return t.filter(name, func(s string) bool { return s != label })
}

// takeRows returns a table containing the given rows of t, in order.
func (t *Table) takeRows(rows []int) *Table {
	out := &Table{rows: len(rows), index: slices.Clone(t.index)}
	out.columns = make([]*Column, len(t.columns))
	for i, c := range t.columns {
		out.columns[i] = c.take(rows)
	}
	return out
}

// AddString returns a table with a constant identifier column appended.
func (t *Table) AddString(name, label string) (*Table, error) {
	return t.addConst(Strings(name, repeatString(label, t.rows)...))
}

// AddFloat returns a table with a constant value column appended.
func (t *Table) AddFloat(name string, value float64) (*Table, error) {
	vals := make([]float64, t.rows)
	for i := range vals {
		vals[i] = value
	}
	return t.addConst(Floats(name, vals...))
}

func (t *Table) addConst(c *Column) (*Table, error) {
	if t.HasColumn(c.name) {
		return nil, fmt.Errorf("add column: %w: %q", ErrDuplicateColumn, c.name)
	}
	out := t.shallow()
	out.columns = append(out.columns, c)
	return out, nil
}

// InsertStringAfter returns a table with a constant identifier column
// inserted immediately after the named column.
func (t *Table) InsertStringAfter(after, name, label string) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("insert column: %w: %q", ErrDuplicateColumn, name)
	}
	pos := -1
	for i, c := range t.columns {
		if c.name == after {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("insert column: %w: %q", ErrColumnNotFound, after)
	}
	out := t.shallow()
	col := Strings(name, repeatString(label, t.rows)...)
	out.columns = slices.Insert(out.columns, pos+1, col)
	return out, nil
}

func repeatString(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
