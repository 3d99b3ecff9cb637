package table

import (
	"fmt"
	"io"
	"strings"

	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render writes a human-readable rendering of the table to w: index
// levels first, then ordinary columns, with a row-count footer.
func (t *Table) Render(w io.Writer) {
	names := append(t.IndexNames(), t.ColumnNames()...)

	pw := pretty.NewWriter()
	pw.SetOutputMirror(w)
	pw.SetStyle(pretty.StyleLight)
	// Column names are case-sensitive identifiers; keep them as-is.
	pw.Style().Format.Header = text.FormatDefault

	header := make(pretty.Row, len(names))
	for i, n := range names {
		if t.isIndex(n) {
			header[i] = n + "*"
		} else {
			header[i] = n
		}
	}
	pw.AppendHeader(header)

	for r := 0; r < t.rows; r++ {
		row := make(pretty.Row, len(names))
		for i, n := range names {
			c, _ := t.Column(n)
			row[i] = c.cell(r)
		}
		pw.AppendRow(row)
	}

	pw.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", t.rows)
}

// String renders the table as text, for debugging and logging.
func (t *Table) String() string {
	var sb strings.Builder
	t.Render(&sb)
	return sb.String()
}
