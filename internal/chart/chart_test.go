package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unistats/internal/dataset"
	apperrors "unistats/internal/errors"
)

func mergedFixture() *dataset.Table {
	cols := append(dataset.KeyColumns(), dataset.ColPerformanceRate, dataset.ColDropoutRate)
	t := dataset.NewTable(cols)
	rows := [][4]string{
		{"2019-2020", "Ciències", "0.82", "11.5"},
		{"2020-2021", "Ciències", "0.85", "10.2"},
		{"2021-2022", "Ciències", "0.87", "9.6"},
		{"2019-2020", "Salut", "0.90", "8.4"},
		{"2020-2021", "Salut", "0.91", "8.0"},
	}
	for _, r := range rows {
		t.AppendRow([]string{r[0], "Pública", "GEI", "Grau", r[1], "Dona", "S", r[2], r[3]})
	}
	return t
}

func TestPlotEvolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img", "evolucio_taxes.png")

	require.NoError(t, PlotEvolution(mergedFixture(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// PNG signature
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestPlotEvolution_MissingColumns(t *testing.T) {
	table := dataset.NewTable([]string{"Curs Acadèmic"})
	table.AppendRow([]string{"2019-2020"})

	err := PlotEvolution(table, filepath.Join(t.TempDir(), "out.png"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch))
}

func TestBranchSeries_SkipsMissingYears(t *testing.T) {
	branchCol := []string{"A", "A", "A"}
	yearCol := []string{"y1", "y2", "y2"}
	values := []float64{1.0, 2.0, 4.0}
	yearIndex := map[string]int{"y1": 0, "y2": 1}

	pts := branchSeries("A", branchCol, yearCol, values, yearIndex)

	require.Len(t, pts, 2)
	assert.Equal(t, 0.0, pts[0].X)
	assert.Equal(t, 1.0, pts[0].Y)
	assert.Equal(t, 1.0, pts[1].X)
	assert.Equal(t, 3.0, pts[1].Y) // mean of 2 and 4
}
