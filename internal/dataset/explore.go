package dataset

import (
	"fmt"
	"io"
	"strings"
)

const previewRows = 5

// Explore writes a basic exploratory summary of the dataset to w: a row
// preview, the column list, and a per-column dtype/non-null table. This is
// display output for a human; it has no effect on downstream data.
func Explore(w io.Writer, d *Dataset) {
	t := d.Table

	fmt.Fprintf(w, "\nDataset: %s (%s)\n", d.Kind, d.Path)

	fmt.Fprintf(w, "\nFirst %d rows:\n", previewRows)
	writePreview(w, t)

	fmt.Fprintf(w, "\nColumns (%d):\n", t.NumColumns())
	for _, c := range t.Columns {
		fmt.Fprintf(w, "  - %s\n", c)
	}

	fmt.Fprintf(w, "\nInfo: %d entries, %d columns\n", t.NumRows(), t.NumColumns())
	fmt.Fprintf(w, "%-4s %-40s %-10s %s\n", "#", "Column", "Non-Null", "Dtype")
	for i, c := range t.Columns {
		nonNull, dtype := columnInfo(t, i)
		fmt.Fprintf(w, "%-4d %-40s %-10d %s\n", i, c, nonNull, dtype)
	}
}

// writePreview prints the header plus the first few rows, tab separated.
func writePreview(w io.Writer, t *Table) {
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	n := previewRows
	if t.NumRows() < n {
		n = t.NumRows()
	}
	for _, row := range t.Rows[:n] {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

// columnInfo infers a dtype for a column the way a dataframe info summary
// would: int64 if every non-empty cell is an integer, float64 if every
// non-empty cell is numeric, string otherwise.
func columnInfo(t *Table, idx int) (nonNull int, dtype string) {
	allInt := true
	allFloat := true
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		nonNull++
		v, ok, err := ParseCellFloat(cell)
		if err != nil || !ok {
			allInt = false
			allFloat = false
			continue
		}
		if v != float64(int64(v)) {
			allInt = false
		}
	}
	switch {
	case nonNull == 0:
		return 0, "string"
	case allInt:
		return nonNull, "int64"
	case allFloat:
		return nonNull, "float64"
	default:
		return nonNull, "string"
	}
}
