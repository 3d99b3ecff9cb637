package output

import (
	"fmt"
	"slices"

	"github.com/ihmeuw/vivarium-research-ciff/pkg/table"
)

// AggregateOptions adjusts [Config.Marginalize] and [Config.Stratify].
type AggregateOptions struct {
	// ValueColumns overrides Config.ValueColumn as the summed columns.
	ValueColumns []string
	// KeepIndex leaves the grouping columns in the result's row index
	// instead of resetting them into ordinary columns.
	KeepIndex bool
}

// Marginalize sums the value columns over the given identifier columns,
// grouping by every other identifier column.
//
// Marginalize and Stratify are complementary: both sum value columns
// over a subset of the identifier columns, but Marginalize names the
// columns to sum away while Stratify names the columns to keep.
func (c *Config) Marginalize(df *table.Table, over []string, opts AggregateOptions) (*table.Table, error) {
	valueCols := defaultColumns(opts.ValueColumns, c.ValueColumn)
	df = reconcile(df, over)
	if err := requireColumns(df, over); err != nil {
		return nil, fmt.Errorf("marginalize: %w", err)
	}
	by := complement(df.ColumnNames(), slices.Concat(over, valueCols))
	summed, err := df.GroupSum(by, valueCols)
	if err != nil {
		return nil, fmt.Errorf("marginalize: %w", err)
	}
	c.log().Debug("marginalize",
		"over", over, "by", by, "rows_in", df.NumRows(), "rows_out", summed.NumRows())
	if opts.KeepIndex {
		return summed, nil
	}
	return summed.ResetIndex(), nil
}

// Stratify sums the value columns grouping by the given strata plus
// Config.IndexColumns, marginalizing every other identifier column.
func (c *Config) Stratify(df *table.Table, strata []string, opts AggregateOptions) (*table.Table, error) {
	valueCols := defaultColumns(opts.ValueColumns, c.ValueColumn)
	by := slices.Concat(strata, c.IndexColumns)
	df = reconcile(df, by)
	summed, err := df.GroupSum(by, valueCols)
	if err != nil {
		return nil, fmt.Errorf("stratify: %w", err)
	}
	c.log().Debug("stratify",
		"strata", strata, "by", by, "rows_in", df.NumRows(), "rows_out", summed.NumRows())
	if opts.KeepIndex {
		return summed, nil
	}
	return summed.ResetIndex(), nil
}
