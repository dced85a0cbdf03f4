// Package pipeline implements the cleaning, grouping and merging
// transforms that take the two raw datasets to the single merged table the
// analysis and charts consume. Every function returns a new table; inputs
// are never mutated.
package pipeline

import (
	"fmt"

	"unistats/internal/dataset"
	apperrors "unistats/internal/errors"
)

// renameMap maps dropout-dataset headers to the canonical names used by
// the performance dataset. Columns not in the map pass through unchanged,
// so reapplying the rename is a no-op.
var renameMap = map[string]string{
	dataset.ColRawUniversityNature: dataset.ColUniversityType,
	dataset.ColRawUniversity:       dataset.ColUniversity,
	dataset.ColRawStudentSex:       dataset.ColSex,
	dataset.ColRawCentreType:       dataset.ColIntegrated,
}

// RenameDropoutColumns renames the dropout dataset's headers to the common
// schema shared with the performance dataset.
func RenameDropoutColumns(t *dataset.Table) *dataset.Table {
	out := t.Clone()
	for i, c := range out.Columns {
		if renamed, ok := renameMap[c]; ok {
			out.Columns[i] = renamed
		}
	}
	return out
}

// RemoveColumns drops the columns the analysis does not use. Universitat
// and Unitat must be present in every dataset shape and their absence is a
// schema error; the two credit columns only exist in the performance
// dataset and are dropped when present.
func RemoveColumns(t *dataset.Table) (*dataset.Table, error) {
	drop := map[string]bool{
		dataset.ColUniversity: true,
		dataset.ColUnit:       true,
	}
	for col := range drop {
		if !t.HasColumn(col) {
			return nil, apperrors.NewSchemaMismatchError(
				fmt.Sprintf("column %q not present, cannot remove it", col), nil)
		}
	}
	for _, col := range []string{dataset.ColCreditsPassed, dataset.ColCreditsEnrolled} {
		if t.HasColumn(col) {
			drop[col] = true
		}
	}

	keep := make([]int, 0, len(t.Columns))
	columns := make([]string, 0, len(t.Columns))
	for i, c := range t.Columns {
		if drop[c] {
			continue
		}
		keep = append(keep, i)
		columns = append(columns, c)
	}

	out := dataset.NewTable(columns)
	for _, row := range t.Rows {
		projected := make([]string, len(keep))
		for j, idx := range keep {
			projected[j] = row[idx]
		}
		out.AppendRow(projected)
	}
	return out, nil
}

// Clean runs the full cleaning sequence for one dataset: empty guard,
// schema harmonization for the dropout shape, column removal, and grouping
// down to the composite key.
func Clean(d *dataset.Dataset) (*dataset.Table, error) {
	if d.Table.IsEmpty() {
		return nil, apperrors.NewEmptyDatasetError(d.Kind.String())
	}

	t := d.Table
	if d.Kind == dataset.KindDropout {
		t = RenameDropoutColumns(t)
	}

	// A tagged dataset must carry the metric column its kind promises.
	if want := d.Kind.MetricColumn(); want != "" && !t.HasColumn(want) {
		return nil, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("dataset %s is missing its metric column %q", d.Kind, want), nil)
	}

	t, err := RemoveColumns(t)
	if err != nil {
		return nil, fmt.Errorf("cleaning %s: %w", d.Kind, err)
	}

	t, err = GroupByBranch(t)
	if err != nil {
		return nil, fmt.Errorf("grouping %s: %w", d.Kind, err)
	}
	return t, nil
}
