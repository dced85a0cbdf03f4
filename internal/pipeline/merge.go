package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"unistats/internal/dataset"
	apperrors "unistats/internal/errors"
)

// keySeparator joins key fields into a single grouping key. The unit
// separator cannot occur in spreadsheet cell text.
const keySeparator = "\x1f"

// GroupByBranch groups a cleaned table by the 7-field composite key and
// replaces the metric column with the arithmetic mean of each group.
// Exactly one of the two known metric columns must be present. Missing
// metric cells are excluded from the mean; a group with no observed values
// yields a missing cell. Output rows are emitted in sorted key order.
func GroupByBranch(t *dataset.Table) (*dataset.Table, error) {
	metric, err := metricColumn(t)
	if err != nil {
		return nil, err
	}

	keyCols := dataset.KeyColumns()
	keyIdx := make([]int, len(keyCols))
	for i, col := range keyCols {
		idx := t.ColumnIndex(col)
		if idx < 0 {
			return nil, apperrors.NewSchemaMismatchError(
				fmt.Sprintf("grouping column %q not present", col), nil)
		}
		keyIdx[i] = idx
	}

	values, err := t.Floats(metric)
	if err != nil {
		return nil, err
	}

	type group struct {
		fields []string
		sum    float64
		count  int
	}
	groups := make(map[string]*group)
	order := make([]string, 0)

	for i, row := range t.Rows {
		fields := make([]string, len(keyIdx))
		for j, idx := range keyIdx {
			fields[j] = row[idx]
		}
		key := strings.Join(fields, keySeparator)
		g, ok := groups[key]
		if !ok {
			g = &group{fields: fields}
			groups[key] = g
			order = append(order, key)
		}
		if !math.IsNaN(values[i]) {
			g.sum += values[i]
			g.count++
		}
	}
	sort.Strings(order)

	out := dataset.NewTable(append(append([]string{}, keyCols...), metric))
	for _, key := range order {
		g := groups[key]
		mean := ""
		if g.count > 0 {
			mean = dataset.FormatCellFloat(g.sum / float64(g.count))
		}
		out.AppendRow(append(append([]string{}, g.fields...), mean))
	}
	return out, nil
}

// metricColumn finds the single metric column present in the table.
// Neither or both being present means the table is not one of the two
// expected dataset shapes.
func metricColumn(t *dataset.Table) (string, error) {
	candidates := []string{dataset.ColDropoutRate, dataset.ColPerformanceRate}
	present := make([]string, 0, 2)
	for _, c := range candidates {
		if t.HasColumn(c) {
			present = append(present, c)
		}
	}
	if len(present) != 1 {
		return "", apperrors.NewSchemaMismatchError(
			fmt.Sprintf("expected exactly one metric column of %v, found %v", candidates, present), nil)
	}
	return present[0], nil
}

// MergeDatasets inner-joins the cleaned performance and dropout tables on
// the 7-field composite key. Keys present in only one table are silently
// dropped. Both inputs are expected to be key-unique (the grouping step
// guarantees this); duplicate keys fan out as a Cartesian product, which
// is the caller's problem to avoid. Output columns are the key fields,
// the performance columns, then the dropout columns, in sorted key order.
func MergeDatasets(performance, dropout *dataset.Table) (*dataset.Table, error) {
	keyCols := dataset.KeyColumns()

	leftKey, err := keyIndices(performance, keyCols)
	if err != nil {
		return nil, fmt.Errorf("merge left table: %w", err)
	}
	rightKey, err := keyIndices(dropout, keyCols)
	if err != nil {
		return nil, fmt.Errorf("merge right table: %w", err)
	}

	leftExtra := nonKeyIndices(performance, keyCols)
	rightExtra := nonKeyIndices(dropout, keyCols)

	columns := append([]string{}, keyCols...)
	for _, idx := range leftExtra {
		columns = append(columns, performance.Columns[idx])
	}
	for _, idx := range rightExtra {
		columns = append(columns, dropout.Columns[idx])
	}

	// Index the right side by key
	rightRows := make(map[string][][]string)
	for _, row := range dropout.Rows {
		key := rowKey(row, rightKey)
		rightRows[key] = append(rightRows[key], row)
	}

	type match struct {
		key   string
		left  []string
		right []string
	}
	matches := make([]match, 0)
	for _, row := range performance.Rows {
		key := rowKey(row, leftKey)
		for _, other := range rightRows[key] {
			matches = append(matches, match{key: key, left: row, right: other})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].key < matches[j].key })

	out := dataset.NewTable(columns)
	for _, m := range matches {
		row := make([]string, 0, len(columns))
		for _, idx := range leftKey {
			row = append(row, m.left[idx])
		}
		for _, idx := range leftExtra {
			row = append(row, m.left[idx])
		}
		for _, idx := range rightExtra {
			row = append(row, m.right[idx])
		}
		out.AppendRow(row)
	}
	return out, nil
}

func keyIndices(t *dataset.Table, keyCols []string) ([]int, error) {
	idx := make([]int, len(keyCols))
	for i, col := range keyCols {
		j := t.ColumnIndex(col)
		if j < 0 {
			return nil, apperrors.NewSchemaMismatchError(
				fmt.Sprintf("merge key column %q not present", col), nil)
		}
		idx[i] = j
	}
	return idx, nil
}

func nonKeyIndices(t *dataset.Table, keyCols []string) []int {
	isKey := make(map[string]bool, len(keyCols))
	for _, c := range keyCols {
		isKey[c] = true
	}
	out := make([]int, 0)
	for i, c := range t.Columns {
		if !isKey[c] {
			out = append(out, i)
		}
	}
	return out
}

func rowKey(row []string, idx []int) string {
	fields := make([]string, len(idx))
	for i, j := range idx {
		fields[i] = row[j]
	}
	return strings.Join(fields, keySeparator)
}
