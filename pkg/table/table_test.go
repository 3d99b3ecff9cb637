package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		Strings("scenario", "baseline", "baseline", "intervention", "intervention"),
		Strings("sex", "Female", "Male", "Female", "Male"),
		Floats("value", 1, 2, 3, 4),
	)
	require.NoError(t, err)
	return tbl
}

func TestNew_DuplicateColumn(t *testing.T) {
	_, err := New(Strings("a", "x"), Floats("a", 1))
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestNew_LengthMismatch(t *testing.T) {
	_, err := New(Strings("a", "x", "y"), Floats("b", 1))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestColumn_Lookup(t *testing.T) {
	tbl := newTestTable(t)

	c, err := tbl.Column("sex")
	require.NoError(t, err)
	assert.Equal(t, []string{"Female", "Male", "Female", "Male"}, c.Labels())
	assert.False(t, c.IsValue())

	v, err := tbl.Column("value")
	require.NoError(t, err)
	assert.True(t, v.IsValue())
	assert.Equal(t, []float64{1, 2, 3, 4}, v.Values())

	_, err = tbl.Column("nope")
	require.ErrorIs(t, err, ErrColumnNotFound)
	assert.False(t, tbl.HasColumn("nope"))
}

func TestSetIndex_ResetIndex(t *testing.T) {
	tbl := newTestTable(t)

	indexed, err := tbl.SetIndex("scenario", "sex")
	require.NoError(t, err)
	assert.Equal(t, []string{"scenario", "sex"}, indexed.IndexNames())
	assert.Equal(t, []string{"value"}, indexed.ColumnNames())

	// The original table is untouched.
	assert.Empty(t, tbl.IndexNames())
	assert.Equal(t, []string{"scenario", "sex", "value"}, tbl.ColumnNames())

	// Index levels can still be looked up.
	_, err = indexed.Column("scenario")
	require.NoError(t, err)

	flat := indexed.ResetIndex()
	assert.Empty(t, flat.IndexNames())
	assert.Equal(t, []string{"scenario", "sex", "value"}, flat.ColumnNames())
}

func TestSetIndex_UnknownColumn(t *testing.T) {
	tbl := newTestTable(t)
	_, err := tbl.SetIndex("nope")
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestSetIndex_ReplacesPreviousIndex(t *testing.T) {
	tbl := newTestTable(t)
	indexed, err := tbl.SetIndex("scenario")
	require.NoError(t, err)
	reindexed, err := indexed.SetIndex("sex")
	require.NoError(t, err)
	assert.Equal(t, []string{"sex"}, reindexed.IndexNames())
	assert.Contains(t, reindexed.ColumnNames(), "scenario")
}

func TestAppendIndex(t *testing.T) {
	tbl := newTestTable(t)
	indexed, err := tbl.SetIndex("scenario")
	require.NoError(t, err)
	indexed, err = indexed.AppendIndex("sex")
	require.NoError(t, err)
	assert.Equal(t, []string{"scenario", "sex"}, indexed.IndexNames())

	_, err = indexed.AppendIndex("sex")
	require.Error(t, err)
}

func TestResetIndex_MovesLevelsToFront(t *testing.T) {
	tbl := newTestTable(t)
	indexed, err := tbl.SetIndex("sex")
	require.NoError(t, err)
	flat := indexed.ResetIndex()
	assert.Equal(t, []string{"sex", "scenario", "value"}, flat.ColumnNames())
}

func TestSelect(t *testing.T) {
	tbl := newTestTable(t)
	indexed, err := tbl.SetIndex("scenario")
	require.NoError(t, err)

	sel, err := indexed.Select("value")
	require.NoError(t, err)
	assert.Equal(t, []string{"value"}, sel.ColumnNames())
	assert.Equal(t, []string{"scenario"}, sel.IndexNames())

	_, err = indexed.Select("nope")
	require.ErrorIs(t, err, ErrColumnNotFound)

	_, err = indexed.Select("scenario")
	require.Error(t, err, "selecting an index level")
}

func TestRename(t *testing.T) {
	tbl := newTestTable(t)
	renamed, err := tbl.Rename("value", "deaths")
	require.NoError(t, err)
	assert.Equal(t, []string{"scenario", "sex", "deaths"}, renamed.ColumnNames())
	assert.True(t, tbl.HasColumn("value"), "original unchanged")

	_, err = tbl.Rename("nope", "x")
	require.ErrorIs(t, err, ErrColumnNotFound)
	_, err = tbl.Rename("value", "sex")
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestFilterEqual(t *testing.T) {
	tbl := newTestTable(t)

	base, err := tbl.FilterEqual("scenario", "baseline")
	require.NoError(t, err)
	assert.Equal(t, 2, base.NumRows())
	v, err := base.Column("value")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, v.Values())

	rest, err := tbl.FilterNotEqual("scenario", "baseline")
	require.NoError(t, err)
	assert.Equal(t, 2, rest.NumRows())

	_, err = tbl.FilterEqual("value", "1")
	require.ErrorIs(t, err, ErrColumnKind)
}

func TestInsertStringAfter(t *testing.T) {
	tbl := newTestTable(t)
	out, err := tbl.InsertStringAfter("scenario", "relative_to", "baseline")
	require.NoError(t, err)
	assert.Equal(t, []string{"scenario", "relative_to", "sex", "value"}, out.ColumnNames())
	c, err := out.Column("relative_to")
	require.NoError(t, err)
	assert.Equal(t, []string{"baseline", "baseline", "baseline", "baseline"}, c.Labels())

	_, err = tbl.InsertStringAfter("nope", "x", "y")
	require.ErrorIs(t, err, ErrColumnNotFound)
	_, err = tbl.InsertStringAfter("scenario", "sex", "y")
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestAddConstantColumns(t *testing.T) {
	tbl := newTestTable(t)
	out, err := tbl.AddString("measure", "deaths")
	require.NoError(t, err)
	out, err = out.AddFloat("multiplier", 1000)
	require.NoError(t, err)

	m, err := out.Column("multiplier")
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 1000, 1000, 1000}, m.Values())

	_, err = out.AddString("measure", "again")
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestString_RendersHeaderAndFooter(t *testing.T) {
	tbl := newTestTable(t)
	indexed, err := tbl.SetIndex("scenario")
	require.NoError(t, err)

	s := indexed.String()
	assert.Contains(t, s, "scenario*", "index levels are marked")
	assert.Contains(t, s, "value")
	assert.True(t, strings.HasSuffix(s, "(4 rows)\n"))
}
