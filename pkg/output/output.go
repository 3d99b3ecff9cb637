// Package output post-processes count-space output from a vivarium
// population-health microsimulation. The operations marginalize or
// stratify summed quantities over categorical identifier columns,
// compute ratios and rates between numerator and denominator tables,
// compute averted quantities between scenario rows, and summarize
// draws with descriptive statistics.
//
// Every operation is a pure transformation over a [table.Table]. The
// column-name defaults (which column holds values, which identifies the
// draw, and so on) live in a [Config]; the package-level functions use a
// process-wide default Config for convenience in notebooks and scripts,
// while Config methods give side-effect-free behavior.
package output

import (
	"log/slog"
	"slices"

	"github.com/ihmeuw/vivarium-research-ciff/pkg/table"
)

// Default column names in vivarium count-space output.
const (
	DefaultValueColumn    = "value"
	DefaultDrawColumn     = "input_draw"
	DefaultScenarioColumn = "scenario"
	DefaultMeasureColumn  = "measure"
)

// Config holds the column-name conventions of one simulation output set.
type Config struct {
	// ValueColumn is the column holding summed measurements.
	ValueColumn string `koanf:"value_column"`
	// DrawColumn identifies the replication draw.
	DrawColumn string `koanf:"draw_column"`
	// ScenarioColumn identifies the scenario.
	ScenarioColumn string `koanf:"scenario_column"`
	// MeasureColumn identifies the kind of measure (deaths, ylls, ...).
	MeasureColumn string `koanf:"measure_column"`
	// IndexColumns are always retained when stratifying or computing
	// ratios: the unit of replication downstream consumers align on.
	IndexColumns []string `koanf:"index_columns"`

	// Logger, when set, receives debug records for each operation.
	Logger *slog.Logger `koanf:"-"`
}

// DefaultConfig returns the conventions of standard vivarium output.
func DefaultConfig() *Config {
	return &Config{
		ValueColumn:    DefaultValueColumn,
		DrawColumn:     DefaultDrawColumn,
		ScenarioColumn: DefaultScenarioColumn,
		MeasureColumn:  DefaultMeasureColumn,
		IndexColumns:   []string{DefaultDrawColumn, DefaultScenarioColumn},
	}
}

var discard = slog.New(slog.DiscardHandler)

func (c *Config) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return discard
}

// global backs the package-level functions. Mutating it (via
// SetGlobalIndexColumns) is an order-dependent side effect on all
// subsequent package-level calls; prefer Config methods in new code.
var global = DefaultConfig()

// Default returns the Config used by the package-level functions.
func Default() *Config { return global }

// SetGlobalIndexColumns replaces the index columns of the default
// Config. For example, if tables for several locations have been
// concatenated under a new "location" column:
//
//	output.SetGlobalIndexColumns(append([]string{"location"}, output.Default().IndexColumns...))
func SetGlobalIndexColumns(indexColumns []string) {
	global.IndexColumns = slices.Clone(indexColumns)
}

// Value calls [Config.Value] on the default Config.
func Value(df *table.Table, opts ValueOptions) (*table.Table, error) {
	return global.Value(df, opts)
}

// Marginalize calls [Config.Marginalize] on the default Config.
func Marginalize(df *table.Table, over []string, opts AggregateOptions) (*table.Table, error) {
	return global.Marginalize(df, over, opts)
}

// Stratify calls [Config.Stratify] on the default Config.
func Stratify(df *table.Table, strata []string, opts AggregateOptions) (*table.Table, error) {
	return global.Stratify(df, strata, opts)
}

// Ratio calls [Config.Ratio] on the default Config.
func Ratio(numerator, denominator *table.Table, strata []string, opts RatioOptions) (*table.Table, error) {
	return global.Ratio(numerator, denominator, strata, opts)
}

// Difference calls [Config.Difference] on the default Config.
func Difference(measure *table.Table, identifierColumn string, opts DifferenceOptions) (*table.Table, error) {
	return global.Difference(measure, identifierColumn, opts)
}

// Averted calls [Config.Averted] on the default Config.
func Averted(measure *table.Table, baselineScenario string, opts AvertedOptions) (*table.Table, error) {
	return global.Averted(measure, baselineScenario, opts)
}

// Describe calls [Config.Describe] on the default Config.
func Describe(df *table.Table, opts DescribeOptions) (*table.Table, error) {
	return global.Describe(df, opts)
}

// MeanLowerUpper calls [Config.MeanLowerUpper] on the default Config.
func MeanLowerUpper(described *table.Table, renames []Rename) (*table.Table, error) {
	return global.MeanLowerUpper(described, renames)
}

// reconcile moves index levels back into ordinary columns when any of
// the requested names is an index level, or when the index has several
// levels, so later lookups and group-bys can reference columns uniformly.
func reconcile(df *table.Table, names []string) *table.Table {
	idx := df.IndexNames()
	if len(idx) > 1 {
		return df.ResetIndex()
	}
	for _, n := range idx {
		if slices.Contains(names, n) {
			return df.ResetIndex()
		}
	}
	return df
}

// complement returns all names not excluded, preserving order.
func complement(all, exclude []string) []string {
	out := make([]string, 0, len(all))
	for _, n := range all {
		if !slices.Contains(exclude, n) {
			out = append(out, n)
		}
	}
	return out
}

// defaultColumns returns cols, or the fallback when cols is absent.
func defaultColumns(cols []string, fallback string) []string {
	if cols == nil {
		return []string{fallback}
	}
	return cols
}

// requireColumns verifies every name is present in the table.
func requireColumns(df *table.Table, names []string) error {
	for _, n := range names {
		if _, err := df.Column(n); err != nil {
			return err
		}
	}
	return nil
}
