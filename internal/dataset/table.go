// Package dataset defines the tabular value type the pipeline operates on
// and the spreadsheet loader that produces it. A loaded table is classified
// into one of the two known dataset kinds at load time, so downstream code
// never has to sniff column shapes.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "unistats/internal/errors"
)

// Table is an ordered set of named columns over string cells.
// An empty cell is a missing value. Transforms return new tables and never
// mutate their input.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given column set.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// IsEmpty reports whether the table has no data rows.
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// AppendRow adds a row, padding or truncating it to the column count.
func (t *Table) AppendRow(row []string) {
	r := make([]string, len(t.Columns))
	copy(r, row)
	t.Rows = append(t.Rows, r)
}

// Cell returns the value at the given row for the named column.
func (t *Table) Cell(row int, column string) (string, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return "", apperrors.NewSchemaMismatchError(
			fmt.Sprintf("column %q not present", column), nil)
	}
	if row < 0 || row >= len(t.Rows) {
		return "", fmt.Errorf("row %d out of range [0,%d)", row, len(t.Rows))
	}
	return t.Rows[row][idx], nil
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("column %q not present", name), nil)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Floats returns the named column parsed as float64. Missing cells come
// back as NaN. Unparsable cells are a PARSING error.
func (t *Table) Floats(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, cell := range cells {
		v, ok, err := ParseCellFloat(cell)
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("column %q row %d: cannot parse %q as number", name, i, cell), err)
		}
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns)
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(row))
		copy(r, row)
		out.Rows[i] = r
	}
	return out
}

// ParseCellFloat parses a spreadsheet cell into a float. The second return
// is false for a missing (empty) cell. Decimal commas are accepted since
// the source files use Catalan locale formatting.
func ParseCellFloat(cell string) (float64, bool, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return v, true, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		if v, err2 := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err2 == nil {
			return v, true, nil
		}
	}
	return 0, false, err
}

// FormatCellFloat renders a float back into a cell.
func FormatCellFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
