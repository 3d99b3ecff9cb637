package output

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ihmeuw/vivarium-research-ciff/pkg/table"
)

// ErrBroadcastOverlap reports broadcast column sets that are not disjoint.
var ErrBroadcastOverlap = errors.New(
	"NumeratorBroadcast and DenominatorBroadcast must be disjoint; shared strata belong in strata")

// RatioOptions adjusts [Config.Ratio].
type RatioOptions struct {
	// Multiplier scales the numerator, typically a power of 10 fixing
	// the units of the result (100 for percent, 100000 for a rate per
	// hundred thousand). Zero means 1.
	Multiplier float64
	// NumeratorBroadcast lists extra identifier columns present only in
	// the numerator to stratify or broadcast by. The population in the
	// numerator must be a subset of the denominator's, so extra strata
	// only make sense on the numerator side.
	NumeratorBroadcast []string
	// DenominatorBroadcast lists extra identifier columns present only
	// in the denominator to broadcast by.
	DenominatorBroadcast []string
	// ValueColumn overrides Config.ValueColumn.
	ValueColumn string
	// MeasureColumn overrides Config.MeasureColumn; only consulted when
	// inputs are recorded.
	MeasureColumn string
	// DropMissing drops rows whose result is missing, i.e. when an
	// empty stratum in the denominator left nothing to divide by.
	DropMissing bool
	// RecordInputs appends the numerator and denominator measures and
	// the multiplier as constant columns. Nil records them exactly when
	// the index is reset, so an indexed result stays arithmetic-ready.
	RecordInputs *bool
	// KeepIndex leaves the result indexed by the stratification columns.
	KeepIndex bool
}

// Ratio divides the numerator by the denominator after stratifying both
// to the shared strata (plus each side's own broadcast columns and
// Config.IndexColumns). Index alignment determines the pairing, with
// broadcasting over one-sided columns; mismatched keys yield NaN.
func (c *Config) Ratio(numerator, denominator *table.Table, strata []string, opts RatioOptions) (*table.Table, error) {
	for _, n := range opts.NumeratorBroadcast {
		if slices.Contains(opts.DenominatorBroadcast, n) {
			return nil, fmt.Errorf("ratio: %w (shared column %q)", ErrBroadcastOverlap, n)
		}
	}

	numerator = numerator.ResetIndex()
	denominator = denominator.ResetIndex()

	valueCol := opts.ValueColumn
	if valueCol == "" {
		valueCol = c.ValueColumn
	}
	measureCol := opts.MeasureColumn
	if measureCol == "" {
		measureCol = c.MeasureColumn
	}
	multiplier := opts.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	record := !opts.KeepIndex
	if opts.RecordInputs != nil {
		record = *opts.RecordInputs
	}

	var numMeasure, denMeasure string
	if record {
		var err error
		if numMeasure, err = uniqueLabels(numerator, measureCol); err != nil {
			return nil, fmt.Errorf("ratio: numerator: %w", err)
		}
		if denMeasure, err = uniqueLabels(denominator, measureCol); err != nil {
			return nil, fmt.Errorf("ratio: denominator: %w", err)
		}
	}

	agg := AggregateOptions{ValueColumns: []string{valueCol}, KeepIndex: true}
	num, err := c.Stratify(numerator, slices.Concat(strata, opts.NumeratorBroadcast), agg)
	if err != nil {
		return nil, fmt.Errorf("ratio: numerator: %w", err)
	}
	den, err := c.Stratify(denominator, slices.Concat(strata, opts.DenominatorBroadcast), agg)
	if err != nil {
		return nil, fmt.Errorf("ratio: denominator: %w", err)
	}

	ratio, err := table.Div(num, den)
	if err != nil {
		return nil, fmt.Errorf("ratio: %w", err)
	}
	ratio = ratio.Scale(multiplier)

	if opts.DropMissing {
		ratio = ratio.DropMissing()
	}
	if record {
		if ratio, err = ratio.AddString("numerator_"+measureCol, numMeasure); err != nil {
			return nil, fmt.Errorf("ratio: %w", err)
		}
		if ratio, err = ratio.AddString("denominator_"+measureCol, denMeasure); err != nil {
			return nil, fmt.Errorf("ratio: %w", err)
		}
		if ratio, err = ratio.AddFloat("multiplier", multiplier); err != nil {
			return nil, fmt.Errorf("ratio: %w", err)
		}
	}
	c.log().Debug("ratio", "strata", strata, "multiplier", multiplier, "rows", ratio.NumRows())
	if opts.KeepIndex {
		return ratio, nil
	}
	return ratio.ResetIndex(), nil
}

// uniqueLabels joins the distinct labels of an identifier column with
// "|", in first-appearance order. Measure columns normally hold a single
// distinct value; transition counts are the known exception.
func uniqueLabels(df *table.Table, name string) (string, error) {
	col, err := df.Column(name)
	if err != nil {
		return "", err
	}
	if col.IsValue() {
		return "", fmt.Errorf("%w: %q is a value column", table.ErrColumnKind, name)
	}
	seen := make(map[string]bool)
	var uniq []string
	for _, lab := range col.Labels() {
		if !seen[lab] {
			seen[lab] = true
			uniq = append(uniq, lab)
		}
	}
	return strings.Join(uniq, "|"), nil
}
