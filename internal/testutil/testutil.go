// Package testutil provides a structured-logging bridge and canonical
// table fixtures for tests.
package testutil

import (
	"log/slog"
	"testing"

	"github.com/ihmeuw/vivarium-research-ciff/pkg/table"
)

// Logger returns a slog.Logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func Logger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// NewTable builds a table from columns, failing the test on invalid input.
func NewTable(t testing.TB, cols ...*table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols...)
	if err != nil {
		t.Fatalf("building fixture table: %v", err)
	}
	return tbl
}

// DeathsFixture returns a canonical count-space output table: two draws,
// two scenarios, and a sex stratification of a "deaths" measure. Values
// are distinct so misalignment shows up in sums.
//
//	input_draw scenario     sex    measure value
//	0          baseline     Female deaths  10
//	0          baseline     Male   deaths  20
//	0          intervention Female deaths  7
//	0          intervention Male   deaths  16
//	1          baseline     Female deaths  12
//	1          baseline     Male   deaths  22
//	1          intervention Female deaths  9
//	1          intervention Male   deaths  18
func DeathsFixture(t testing.TB) *table.Table {
	t.Helper()
	return NewTable(t,
		table.Strings("input_draw",
			"0", "0", "0", "0", "1", "1", "1", "1"),
		table.Strings("scenario",
			"baseline", "baseline", "intervention", "intervention",
			"baseline", "baseline", "intervention", "intervention"),
		table.Strings("sex",
			"Female", "Male", "Female", "Male",
			"Female", "Male", "Female", "Male"),
		table.Strings("measure",
			"deaths", "deaths", "deaths", "deaths",
			"deaths", "deaths", "deaths", "deaths"),
		table.Floats("value", 10, 20, 7, 16, 12, 22, 9, 18),
	)
}

// PersonTimeFixture returns a denominator table matching DeathsFixture's
// draws and scenarios, stratified by sex, holding person-time.
func PersonTimeFixture(t testing.TB) *table.Table {
	t.Helper()
	return NewTable(t,
		table.Strings("input_draw",
			"0", "0", "0", "0", "1", "1", "1", "1"),
		table.Strings("scenario",
			"baseline", "baseline", "intervention", "intervention",
			"baseline", "baseline", "intervention", "intervention"),
		table.Strings("sex",
			"Female", "Male", "Female", "Male",
			"Female", "Male", "Female", "Male"),
		table.Strings("measure",
			"person_time", "person_time", "person_time", "person_time",
			"person_time", "person_time", "person_time", "person_time"),
		table.Floats("value", 1000, 2000, 1000, 2000, 1200, 2200, 1200, 2200),
	)
}
