package output

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ihmeuw/vivarium-research-ciff/pkg/table"
)

// ErrIncludeExclude reports ValueOptions naming both Include and Exclude.
var ErrIncludeExclude = errors.New("only one of Include or Exclude can be specified")

// ValueOptions selects the identifier index used by [Config.Value].
// Include and Exclude are mutually exclusive; nil means unspecified.
type ValueOptions struct {
	// Include sets the index to these columns plus Config.IndexColumns.
	Include []string
	// Exclude sets the index to every column except these and the
	// value columns.
	Exclude []string
	// ValueColumns overrides Config.ValueColumn as the visible columns.
	ValueColumns []string
}

// Value sets the table's row index so that its only ordinary columns are
// the value columns. Two results with compatible indexes can then be
// combined elementwise with [table.Add], [table.Sub], [table.Mul], or
// [table.Div].
//
// With neither Include nor Exclude, the index becomes every column
// except the value columns. With Include, the index becomes Include plus
// Config.IndexColumns. With Exclude, the excluded columns are left out
// of the default index. Specifying both is an error.
func (c *Config) Value(df *table.Table, opts ValueOptions) (*table.Table, error) {
	if opts.Include != nil && opts.Exclude != nil {
		return nil, fmt.Errorf("value: %w (Include=%v, Exclude=%v)",
			ErrIncludeExclude, opts.Include, opts.Exclude)
	}
	df = df.ResetIndex()
	valueCols := defaultColumns(opts.ValueColumns, c.ValueColumn)

	var indexCols []string
	if opts.Include != nil {
		indexCols = slices.Concat(opts.Include, c.IndexColumns)
	} else {
		indexCols = complement(df.ColumnNames(), slices.Concat(valueCols, opts.Exclude))
	}

	indexed, err := df.SetIndex(indexCols...)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	out, err := indexed.Select(valueCols...)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	c.log().Debug("value", "index", indexCols, "value_columns", valueCols)
	return out, nil
}
