package table

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Add returns the elementwise sum of two indexed tables, aligned on their
// shared index levels. See Div for the alignment rules.
func Add(a, b *Table) (*Table, error) {
	return binary(a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns the elementwise difference of two indexed tables, aligned
// on their shared index levels. See Div for the alignment rules.
func Sub(a, b *Table) (*Table, error) {
	return binary(a, b, func(x, y float64) float64 { return x - y })
}

// Mul returns the elementwise product of two indexed tables, aligned on
// their shared index levels. See Div for the alignment rules.
func Mul(a, b *Table) (*Table, error) {
	return binary(a, b, func(x, y float64) float64 { return x * y })
}

// Div returns the elementwise quotient of two indexed tables.
//
// Both operands must be indexed, their index levels must be identifier
// columns, and their ordinary columns must be the same set of value
// columns. Rows pair up by the index levels the operands share; levels
// present on only one side broadcast, so a row pairs with every matching
// row of the other operand. The result is indexed by the union of levels
// (left levels first) and sorted by key. Keys present on only one side
// yield NaN values; division by a present zero follows float64 semantics.
func Div(a, b *Table) (*Table, error) {
	return binary(a, b, func(x, y float64) float64 { return x / y })
}

// indexColumns returns the index-level columns in level order, requiring
// every level to be an identifier column.
func (t *Table) indexColumns() ([]*Column, error) {
	if len(t.index) == 0 {
		return nil, ErrNotIndexed
	}
	cols := make([]*Column, len(t.index))
	for i, n := range t.index {
		c, _ := t.Column(n)
		if c.IsValue() {
			return nil, fmt.Errorf("%w: index level %q is a value column", ErrColumnKind, n)
		}
		cols[i] = c
	}
	return cols, nil
}

// valueColumns returns the ordinary columns in order, requiring every
// one to be a value column with one of the given names.
func (t *Table) valueColumns(names []string) ([]*Column, error) {
	cols := make([]*Column, len(names))
	for i, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		if !c.IsValue() {
			return nil, fmt.Errorf("%w: %q is an identifier column", ErrColumnKind, n)
		}
		cols[i] = c
	}
	return cols, nil
}

func binary(a, b *Table, op func(x, y float64) float64) (*Table, error) {
	aIdx, err := a.indexColumns()
	if err != nil {
		return nil, fmt.Errorf("aligned op: left operand: %w", err)
	}
	bIdx, err := b.indexColumns()
	if err != nil {
		return nil, fmt.Errorf("aligned op: right operand: %w", err)
	}

	valueNames := a.ColumnNames()
	bNames := b.ColumnNames()
	if !sameSet(valueNames, bNames) {
		return nil, fmt.Errorf("aligned op: operand columns differ: %v vs %v", valueNames, bNames)
	}
	aVals, err := a.valueColumns(valueNames)
	if err != nil {
		return nil, fmt.Errorf("aligned op: left operand: %w", err)
	}
	bVals, err := b.valueColumns(valueNames)
	if err != nil {
		return nil, fmt.Errorf("aligned op: right operand: %w", err)
	}

	// Levels the operands share, in left order, pair the rows.
	var shared []string
	for _, n := range a.index {
		if slices.Contains(b.index, n) {
			shared = append(shared, n)
		}
	}
	if len(shared) == 0 {
		return nil, fmt.Errorf("aligned op: operands share no index levels (%v vs %v)", a.index, b.index)
	}

	levels := slices.Clone(a.index)
	var bOnly []string
	for _, n := range b.index {
		if !slices.Contains(shared, n) {
			levels = append(levels, n)
			bOnly = append(bOnly, n)
		}
	}
	aOnly := make([]string, 0, len(a.index))
	for _, n := range a.index {
		if !slices.Contains(shared, n) {
			aOnly = append(aOnly, n)
		}
	}

	sharedKey := func(cols []*Column, names []string, idx []string, row int) string {
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = cols[slices.Index(idx, n)].labels[row]
		}
		return strings.Join(parts, keySep)
	}

	// Group right rows by shared key.
	bByKey := make(map[string][]int)
	for r := 0; r < b.rows; r++ {
		k := sharedKey(bIdx, shared, b.index, r)
		bByKey[k] = append(bByKey[k], r)
	}

	type outRow struct {
		labels []string // one per result level
		vals   []float64
	}
	var out []outRow

	emit := func(labels []string, vals []float64) {
		out = append(out, outRow{labels: labels, vals: vals})
	}

	matched := make(map[string]bool)
	for r := 0; r < a.rows; r++ {
		k := sharedKey(aIdx, shared, a.index, r)
		labels := make([]string, 0, len(levels))
		for _, c := range aIdx {
			labels = append(labels, c.labels[r])
		}
		bRows, ok := bByKey[k]
		if !ok {
			// Left-only key: the right side is missing entirely.
			full := append(labels, repeatString("", len(bOnly))...)
			emit(full, repeatFloat(math.NaN(), len(valueNames)))
			continue
		}
		matched[k] = true
		for _, br := range bRows {
			full := slices.Clone(labels)
			for _, n := range bOnly {
				full = append(full, bIdx[slices.Index(b.index, n)].labels[br])
			}
			vals := make([]float64, len(valueNames))
			for i := range valueNames {
				vals[i] = op(aVals[i].values[r], bVals[i].values[br])
			}
			emit(full, vals)
		}
	}

	// Right-only keys, in row order.
	for r := 0; r < b.rows; r++ {
		k := sharedKey(bIdx, shared, b.index, r)
		if matched[k] {
			continue
		}
		labels := make([]string, len(levels))
		for i, n := range levels {
			switch {
			case slices.Contains(aOnly, n):
				labels[i] = ""
			default:
				labels[i] = bIdx[slices.Index(b.index, n)].labels[r]
			}
		}
		emit(labels, repeatFloat(math.NaN(), len(valueNames)))
	}

	slices.SortStableFunc(out, func(x, y outRow) int {
		return slices.Compare(x.labels, y.labels)
	})

	cols := make([]*Column, 0, len(levels)+len(valueNames))
	for i, n := range levels {
		labs := make([]string, len(out))
		for r, row := range out {
			labs[r] = row.labels[i]
		}
		cols = append(cols, Strings(n, labs...))
	}
	for i, n := range valueNames {
		vals := make([]float64, len(out))
		for r, row := range out {
			vals[r] = row.vals[i]
		}
		cols = append(cols, Floats(n, vals...))
	}
	res, err := New(cols...)
	if err != nil {
		return nil, err
	}
	return res.SetIndex(levels...)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, n := range a {
		if !slices.Contains(b, n) {
			return false
		}
	}
	return true
}

func repeatFloat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
