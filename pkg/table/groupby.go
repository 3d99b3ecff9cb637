package table

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// keySep separates level values inside a composite group key. Identifier
// labels are assumed not to contain the unit separator.
const keySep = "\x1f"

// Groups is the result of grouping a table's rows by a set of identifier
// columns. Groups are ordered by their key tuples, ascending per level.
type Groups struct {
	// By holds the grouping column names, in order.
	By []string
	// Keys holds one label tuple per group, aligned with Rows.
	Keys [][]string
	// Rows holds the source row indices of each group, in source order.
	Rows [][]int
}

// GroupBy groups the table's rows by the given identifier columns.
// The columns must be ordinary columns (reset the index first if needed).
func (t *Table) GroupBy(by []string) (*Groups, error) {
	cols := make([]*Column, len(by))
	for i, n := range by {
		c, err := t.Column(n)
		if err != nil {
			return nil, fmt.Errorf("group by: %w", err)
		}
		if c.IsValue() {
			return nil, fmt.Errorf("group by: %w: %q is a value column", ErrColumnKind, n)
		}
		if t.isIndex(n) {
			return nil, fmt.Errorf("group by: %q is an index level, reset the index first", n)
		}
		cols[i] = c
	}

	rowsByKey := make(map[string][]int)
	tuples := make(map[string][]string)
	for r := 0; r < t.rows; r++ {
		tuple := make([]string, len(cols))
		for i, c := range cols {
			tuple[i] = c.labels[r]
		}
		key := strings.Join(tuple, keySep)
		if _, ok := rowsByKey[key]; !ok {
			tuples[key] = tuple
		}
		rowsByKey[key] = append(rowsByKey[key], r)
	}

	keys := make([]string, 0, len(rowsByKey))
	for k := range rowsByKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	g := &Groups{By: slices.Clone(by)}
	for _, k := range keys {
		g.Keys = append(g.Keys, tuples[k])
		g.Rows = append(g.Rows, rowsByKey[k])
	}
	return g, nil
}

// GroupSum groups the table by the given identifier columns and sums the
// given value columns within each group. The result is indexed by the
// grouping columns and sorted by group key.
func (t *Table) GroupSum(by, valueCols []string) (*Table, error) {
	g, err := t.GroupBy(by)
	if err != nil {
		return nil, err
	}
	vals := make([]*Column, len(valueCols))
	for i, n := range valueCols {
		c, err := t.Column(n)
		if err != nil {
			return nil, fmt.Errorf("group sum: %w", err)
		}
		if !c.IsValue() {
			return nil, fmt.Errorf("group sum: %w: %q is an identifier column", ErrColumnKind, n)
		}
		vals[i] = c
	}

	cols := make([]*Column, 0, len(by)+len(valueCols))
	for i, n := range by {
		labels := make([]string, len(g.Keys))
		for r, tuple := range g.Keys {
			labels[r] = tuple[i]
		}
		cols = append(cols, Strings(n, labels...))
	}
	for i, vc := range vals {
		sums := make([]float64, len(g.Rows))
		for r, rows := range g.Rows {
			var sum float64
			for _, src := range rows {
				sum += vc.values[src]
			}
			sums[r] = sum
		}
		cols = append(cols, Floats(valueCols[i], sums...))
	}

	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	return out.SetIndex(by...)
}

// Scale returns a table with every ordinary value column multiplied by
// factor. Identifier columns and index levels are untouched.
func (t *Table) Scale(factor float64) *Table {
	out := t.shallow()
	for i, c := range out.columns {
		if !c.IsValue() || t.isIndex(c.name) {
			continue
		}
		vals := make([]float64, len(c.values))
		for j, v := range c.values {
			vals[j] = v * factor
		}
		out.columns[i] = Floats(c.name, vals...)
	}
	return out
}

// DropMissing returns a table without the rows holding NaN in any
// ordinary value column.
func (t *Table) DropMissing() *Table {
	var rows []int
	for r := 0; r < t.rows; r++ {
		keep := true
		for _, c := range t.columns {
			if c.IsValue() && !t.isIndex(c.name) && math.IsNaN(c.values[r]) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, r)
		}
	}
	if len(rows) == t.rows {
		return t
	}
	return t.takeRows(rows)
}
