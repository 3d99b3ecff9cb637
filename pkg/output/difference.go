package output

import (
	"errors"
	"fmt"

	"github.com/ihmeuw/vivarium-research-ciff/pkg/table"
)

// ErrNoOperand reports a Difference call naming neither side.
var ErrNoOperand = errors.New("at least one of MinuendID and SubtrahendID must be specified")

// DifferenceOptions selects the rows subtracted by [Config.Difference].
// Ids are identifier labels; the empty string means unspecified.
type DifferenceOptions struct {
	// MinuendID selects the rows subtracted from.
	MinuendID string
	// SubtrahendID selects the rows subtracted.
	SubtrahendID string
}

// Difference subtracts the subtrahend rows of a measure from the minuend
// rows, where both sides are selected by their label in identifierColumn.
// When only one id is given, the other side is every row not matching it,
// and the single-id side broadcasts over it. Rows align on all remaining
// identifier columns; the identifier column itself stays attached to the
// broadcast side (or to the subtrahend when both ids are given) so each
// result row keeps its attribution.
//
// A constant annotation column is inserted after identifierColumn
// recording the fixed reference point: subtracted_from = MinuendID when
// the minuend was given, else subtracted_value = SubtrahendID.
func (c *Config) Difference(measure *table.Table, identifierColumn string, opts DifferenceOptions) (*table.Table, error) {
	if opts.MinuendID == "" && opts.SubtrahendID == "" {
		return nil, fmt.Errorf("difference: %w", ErrNoOperand)
	}
	measure = measure.ResetIndex()

	var minuend, subtrahend *table.Table
	var err error
	if opts.MinuendID != "" {
		if minuend, err = measure.FilterEqual(identifierColumn, opts.MinuendID); err != nil {
			return nil, fmt.Errorf("difference: %w", err)
		}
		if opts.SubtrahendID != "" {
			subtrahend, err = measure.FilterEqual(identifierColumn, opts.SubtrahendID)
		} else {
			// Broadcast the minuend over everything else.
			subtrahend, err = measure.FilterNotEqual(identifierColumn, opts.MinuendID)
		}
	} else {
		if subtrahend, err = measure.FilterEqual(identifierColumn, opts.SubtrahendID); err != nil {
			return nil, fmt.Errorf("difference: %w", err)
		}
		// Broadcast the subtrahend over everything else.
		minuend, err = measure.FilterNotEqual(identifierColumn, opts.SubtrahendID)
	}
	if err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}

	// Columns matched when subtracting.
	base := complement(measure.ColumnNames(), []string{identifierColumn, c.ValueColumn})
	if minuend, err = minuend.SetIndex(base...); err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}
	if subtrahend, err = subtrahend.SetIndex(base...); err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}

	// The identifier column joins the index of the broadcast side, or
	// the subtrahend when neither side broadcasts.
	if opts.MinuendID == "" {
		minuend, err = minuend.AppendIndex(identifierColumn)
	} else {
		subtrahend, err = subtrahend.AppendIndex(identifierColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}

	if minuend, err = minuend.Select(c.ValueColumn); err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}
	if subtrahend, err = subtrahend.Select(c.ValueColumn); err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}

	diff, err := table.Sub(minuend, subtrahend)
	if err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}
	diff = diff.ResetIndex()

	name, label := "subtracted_from", opts.MinuendID
	if opts.MinuendID == "" {
		name, label = "subtracted_value", opts.SubtrahendID
	}
	out, err := diff.InsertStringAfter(identifierColumn, name, label)
	if err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}
	c.log().Debug("difference",
		"identifier", identifierColumn, "minuend", opts.MinuendID,
		"subtrahend", opts.SubtrahendID, "rows", out.NumRows())
	return out, nil
}

// AvertedOptions adjusts [Config.Averted].
type AvertedOptions struct {
	// ScenarioColumn overrides Config.ScenarioColumn.
	ScenarioColumn string
}

// Averted computes an averted measure (DALYs averted, deaths averted, ...)
// by subtracting each intervention scenario's value from the baseline
// scenario's value: averted = baseline - intervention.
func (c *Config) Averted(measure *table.Table, baselineScenario string, opts AvertedOptions) (*table.Table, error) {
	scenarioCol := opts.ScenarioColumn
	if scenarioCol == "" {
		scenarioCol = c.ScenarioColumn
	}
	return c.Difference(measure, scenarioCol, DifferenceOptions{MinuendID: baselineScenario})
}
