package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihmeuw/vivarium-research-ciff/internal/testutil"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultValueColumn, cfg.ValueColumn)
	assert.Equal(t, DefaultDrawColumn, cfg.DrawColumn)
	assert.Equal(t, DefaultScenarioColumn, cfg.ScenarioColumn)
	assert.Equal(t, DefaultMeasureColumn, cfg.MeasureColumn)
	assert.Equal(t, []string{DefaultDrawColumn, DefaultScenarioColumn}, cfg.IndexColumns)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vivarium.yaml")
	contents := `value_column: deaths
index_columns:
  - input_draw
  - scenario
  - location
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "deaths", cfg.ValueColumn)
	assert.Equal(t, []string{"input_draw", "scenario", "location"}, cfg.IndexColumns)
	assert.Equal(t, DefaultDrawColumn, cfg.DrawColumn, "unset keys keep defaults")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vivarium.yaml")
	require.NoError(t, os.WriteFile(path, []byte("value_column: from_file\n"), 0o644))

	t.Setenv("VIVARIUM_VALUE_COLUMN", "from_env")
	t.Setenv("VIVARIUM_INDEX_COLUMNS", "input_draw, scenario, location")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.ValueColumn)
	assert.Equal(t, []string{"input_draw", "scenario", "location"}, cfg.IndexColumns)
}

func TestLoadConfig_UnreadableFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSetGlobalIndexColumns(t *testing.T) {
	orig := Default().IndexColumns
	defer SetGlobalIndexColumns(orig)

	df := testutil.DeathsFixture(t)

	cols := []string{"input_draw", "scenario", "sex"}
	SetGlobalIndexColumns(cols)
	cols[2] = "mutated"
	assert.Equal(t, []string{"input_draw", "scenario", "sex"}, Default().IndexColumns,
		"the slice is copied")

	stratified, err := Stratify(df, nil, AggregateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"input_draw", "scenario", "sex", "value"}, stratified.ColumnNames())
	assert.Equal(t, 8, stratified.NumRows(), "sex kept as a stratum")
}

func TestPackageLevelFunctions(t *testing.T) {
	deaths := testutil.DeathsFixture(t)
	personTime := testutil.PersonTimeFixture(t)

	marginalized, err := Marginalize(deaths, []string{"sex"}, AggregateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, marginalized.NumRows())

	rate, err := Ratio(deaths, personTime, nil, RatioOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, rate.NumRows())

	averted, err := Averted(deaths, "baseline", AvertedOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, averted.NumRows())

	described, err := Describe(deaths, DescribeOptions{})
	require.NoError(t, err)
	summary, err := MeanLowerUpper(described, nil)
	require.NoError(t, err)
	assert.Contains(t, summary.ColumnNames(), "lower")
}
