package output

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihmeuw/vivarium-research-ciff/internal/testutil"
	"github.com/ihmeuw/vivarium-research-ciff/pkg/table"
)

func TestRatio_IdenticalOperandsYieldOne(t *testing.T) {
	cfg := testConfig(t)
	df := testutil.DeathsFixture(t)

	r, err := cfg.Ratio(df, df, []string{"sex"}, RatioOptions{})
	require.NoError(t, err)

	for _, v := range columnValues(t, r, "value") {
		assert.Equal(t, 1.0, v)
	}
}

func TestRatio_MortalityRate(t *testing.T) {
	cfg := testConfig(t)
	deaths := testutil.DeathsFixture(t)
	personTime := testutil.PersonTimeFixture(t)

	r, err := cfg.Ratio(deaths, personTime, []string{"sex"}, RatioOptions{Multiplier: 100_000})
	require.NoError(t, err)

	// Flat result: stratification columns first, then value and the
	// recorded inputs.
	assert.Equal(t,
		[]string{"sex", "input_draw", "scenario", "value",
			"numerator_measure", "denominator_measure", "multiplier"},
		r.ColumnNames())

	// Sorted by (sex, input_draw, scenario).
	vals := columnValues(t, r, "value")
	require.Len(t, vals, 8)
	// Female draw 0: 10/1000 and 7/1000; Male draw 0 baseline: 20/2000;
	// Male draw 1 intervention: 18/2200.
	assert.InDelta(t, 1000.0, vals[0], 1e-9)
	assert.InDelta(t, 700.0, vals[1], 1e-9)
	assert.InDelta(t, 1000.0, vals[4], 1e-9)
	assert.InDelta(t, 818.181818, vals[7], 1e-5)

	assert.Equal(t, "deaths", columnLabels(t, r, "numerator_measure")[0])
	assert.Equal(t, "person_time", columnLabels(t, r, "denominator_measure")[0])
	assert.Equal(t, 100_000.0, columnValues(t, r, "multiplier")[0])
}

func TestRatio_KeepIndexSkipsRecordingByDefault(t *testing.T) {
	cfg := testConfig(t)
	deaths := testutil.DeathsFixture(t)
	personTime := testutil.PersonTimeFixture(t)

	r, err := cfg.Ratio(deaths, personTime, []string{"sex"}, RatioOptions{KeepIndex: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"sex", "input_draw", "scenario"}, r.IndexNames())
	assert.Equal(t, []string{"value"}, r.ColumnNames(),
		"indexed result stays arithmetic-ready")
}

func TestRatio_RecordInputsOverride(t *testing.T) {
	cfg := testConfig(t)
	deaths := testutil.DeathsFixture(t)
	personTime := testutil.PersonTimeFixture(t)

	record := true
	r, err := cfg.Ratio(deaths, personTime, []string{"sex"},
		RatioOptions{KeepIndex: true, RecordInputs: &record})
	require.NoError(t, err)
	assert.Contains(t, r.ColumnNames(), "multiplier")

	record = false
	r, err = cfg.Ratio(deaths, personTime, []string{"sex"},
		RatioOptions{RecordInputs: &record})
	require.NoError(t, err)
	assert.NotContains(t, r.ColumnNames(), "multiplier")
}

func TestRatio_BroadcastOverlapRejected(t *testing.T) {
	cfg := testConfig(t)
	df := testutil.DeathsFixture(t)

	_, err := cfg.Ratio(df, df, nil, RatioOptions{
		NumeratorBroadcast:   []string{"sex"},
		DenominatorBroadcast: []string{"sex"},
	})
	require.ErrorIs(t, err, ErrBroadcastOverlap)
}

func TestRatio_NumeratorBroadcast(t *testing.T) {
	cfg := testConfig(t)
	// Cause-specific deaths over all-cause person-time.
	deaths := testutil.NewTable(t,
		table.Strings("input_draw", "0", "0"),
		table.Strings("scenario", "baseline", "baseline"),
		table.Strings("cause", "measles", "malaria"),
		table.Strings("measure", "deaths", "deaths"),
		table.Floats("value", 5, 20),
	)
	personTime := testutil.NewTable(t,
		table.Strings("input_draw", "0"),
		table.Strings("scenario", "baseline"),
		table.Strings("measure", "person_time"),
		table.Floats("value", 1000),
	)

	r, err := cfg.Ratio(deaths, personTime, nil, RatioOptions{
		NumeratorBroadcast: []string{"cause"},
	})
	require.NoError(t, err)

	// Sorted by (cause, input_draw, scenario).
	assert.Equal(t, []string{"malaria", "measles"}, columnLabels(t, r, "cause"))
	assert.Equal(t, []float64{0.02, 0.005}, columnValues(t, r, "value"))
}

func TestRatio_DropMissing(t *testing.T) {
	cfg := testConfig(t)
	deaths := testutil.DeathsFixture(t)

	// The denominator has no Male stratum, so Male rows divide against
	// nothing and come back missing.
	personTime, err := testutil.PersonTimeFixture(t).FilterEqual("sex", "Female")
	require.NoError(t, err)

	kept, err := cfg.Ratio(deaths, personTime, []string{"sex"}, RatioOptions{DropMissing: true})
	require.NoError(t, err)
	assert.Equal(t, 4, kept.NumRows())
	for _, sex := range columnLabels(t, kept, "sex") {
		assert.Equal(t, "Female", sex)
	}

	all, err := cfg.Ratio(deaths, personTime, []string{"sex"}, RatioOptions{})
	require.NoError(t, err)
	assert.Equal(t, 8, all.NumRows())
	vals := columnValues(t, all, "value")
	assert.True(t, math.IsNaN(vals[4]), "Male rows are missing")
}
