package output

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/ihmeuw/vivarium-research-ciff/pkg/stats"
	"github.com/ihmeuw/vivarium-research-ciff/pkg/table"
)

// DescribeOptions adjusts [Config.Describe].
type DescribeOptions struct {
	// Percentiles to report, as fractions in (0, 1). Defaults to
	// 2.5% and 97.5%. The median is always included.
	Percentiles []float64
}

// Describe summarizes the value column across draws: it groups by every
// column except Config.DrawColumn and Config.ValueColumn and reports
// count, mean, std, min, the requested percentiles, and max per group.
// Percentile columns are labelled like "2.5%". The result stays indexed
// by the grouping columns.
func (c *Config) Describe(df *table.Table, opts DescribeOptions) (*table.Table, error) {
	pcts := slices.Clone(opts.Percentiles)
	if pcts == nil {
		pcts = []float64{0.025, 0.975}
	}
	if !slices.Contains(pcts, 0.5) {
		pcts = append(pcts, 0.5)
	}
	slices.Sort(pcts)
	pcts = slices.Compact(pcts)

	excluded := []string{c.DrawColumn, c.ValueColumn}
	df = reconcile(df, excluded)
	valueCol, err := df.Column(c.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	if !valueCol.IsValue() {
		return nil, fmt.Errorf("describe: %w: %q is an identifier column", table.ErrColumnKind, c.ValueColumn)
	}
	by := complement(df.ColumnNames(), excluded)
	if len(by) == 0 {
		return nil, fmt.Errorf("describe: no identifier columns to group by besides %q", c.DrawColumn)
	}

	groups, err := df.GroupBy(by)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}

	n := len(groups.Rows)
	counts := make([]float64, n)
	means := make([]float64, n)
	stds := make([]float64, n)
	mins := make([]float64, n)
	maxs := make([]float64, n)
	qtls := make([][]float64, len(pcts))
	for i := range qtls {
		qtls[i] = make([]float64, n)
	}

	for g, rows := range groups.Rows {
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = valueCol.Values()[r]
		}
		counts[g] = stats.Count(vals)
		means[g] = stats.Mean(vals)
		stds[g] = stats.Std(vals)
		mins[g] = stats.Min(vals)
		maxs[g] = stats.Max(vals)
		for i, p := range pcts {
			qtls[i][g] = stats.Quantile(vals, p)
		}
	}

	cols := make([]*table.Column, 0, len(by)+len(pcts)+5)
	for i, name := range by {
		labels := make([]string, n)
		for g, tuple := range groups.Keys {
			labels[g] = tuple[i]
		}
		cols = append(cols, table.Strings(name, labels...))
	}
	cols = append(cols,
		table.Floats("count", counts...),
		table.Floats("mean", means...),
		table.Floats("std", stds...),
		table.Floats("min", mins...),
	)
	for i, p := range pcts {
		cols = append(cols, table.Floats(percentLabel(p), qtls[i]...))
	}
	cols = append(cols, table.Floats("max", maxs...))

	described, err := table.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	c.log().Debug("describe", "by", by, "groups", n, "percentiles", pcts)
	return described.SetIndex(by...)
}

// percentLabel formats a fraction as a percentile column label, e.g.
// 0.025 -> "2.5%".
func percentLabel(p float64) string {
	// Round away float noise before trimming trailing zeros.
	v := math.Round(p*1e5) / 1e3
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Rename maps a described column to its reporting name.
type Rename struct {
	From string
	To   string
}

// DefaultRenames maps mean and the default percentile bounds to the
// conventional mean/lower/upper reporting columns.
func DefaultRenames() []Rename {
	return []Rename{
		{From: "mean", To: "mean"},
		{From: "2.5%", To: "lower"},
		{From: "97.5%", To: "upper"},
	}
}

// MeanLowerUpper extracts reporting columns from a [Config.Describe]
// result, renaming them per the given mapping (nil means
// [DefaultRenames]) and resetting the index.
func (c *Config) MeanLowerUpper(described *table.Table, renames []Rename) (*table.Table, error) {
	if renames == nil {
		renames = DefaultRenames()
	}
	froms := make([]string, len(renames))
	for i, r := range renames {
		froms[i] = r.From
	}
	out, err := described.Select(froms...)
	if err != nil {
		return nil, fmt.Errorf("mean lower upper: %w", err)
	}
	for _, r := range renames {
		if out, err = out.Rename(r.From, r.To); err != nil {
			return nil, fmt.Errorf("mean lower upper: %w", err)
		}
	}
	return out.ResetIndex(), nil
}
