package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unistats/internal/dataset"
)

// mergedRow is [academic year, branch, performance rate, dropout rate].
type mergedRow [4]string

// mergedTable builds a merged-shape table: the 7 key columns plus both
// metric columns, with the non-varying key fields held constant.
func mergedTable(rows []mergedRow) *dataset.Table {
	cols := append(dataset.KeyColumns(), dataset.ColPerformanceRate, dataset.ColDropoutRate)
	t := dataset.NewTable(cols)
	for _, r := range rows {
		t.AppendRow([]string{r[0], "Pública", "GEI", "Grau", r[1], "Dona", "S", r[2], r[3]})
	}
	return t
}

func TestCalculateTrend(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   string
	}{
		{"strictly increasing", []float64{10, 12, 14, 16}, TrendIncreasing},
		{"strictly decreasing", []float64{16, 14, 12, 10}, TrendDecreasing},
		{"flat", []float64{12, 12, 12, 12}, TrendStable},
		{"slope within threshold", []float64{10, 10.005, 10.01}, TrendStable},
		{"slope just below negative threshold", []float64{10, 9.995, 9.99}, TrendStable},
		{"single point", []float64{42}, TrendStable},
		{"empty", nil, TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTrend(tt.series))
		})
	}
}

func TestBuildMetadata(t *testing.T) {
	table := mergedTable([]mergedRow{
		{"2020-2021", "Ciències", "0.85", "10"},
		{"2019-2020", "Ciències", "0.82", "11"},
		{"2020-2021", "Salut", "0.90", "8"},
	})

	meta, err := BuildMetadata(table, "run-123")
	require.NoError(t, err)

	assert.Equal(t, 3, meta.NumRecords)
	assert.Equal(t, []string{"2019-2020", "2020-2021"}, meta.TimePeriod)
	assert.Equal(t, "run-123", meta.RunID)

	_, err = time.Parse("2006-01-02", meta.CurrentDate)
	assert.NoError(t, err, "current_date must be date-only")
}

func TestBuildGlobalStatistics_PairwiseCorrelation(t *testing.T) {
	// Four complete rows with perfect negative correlation, plus one row
	// with a missing dropout value that must be excluded pairwise.
	table := mergedTable([]mergedRow{
		{"2019-2020", "A", "40", "10"},
		{"2019-2020", "B", "30", "20"},
		{"2019-2020", "C", "20", "30"},
		{"2019-2020", "D", "10", "40"},
		{"2019-2020", "E", "999", ""},
	})

	stats, err := BuildGlobalStatistics(table)
	require.NoError(t, err)

	// Means still use every observed value per column
	assert.InDelta(t, 25.0, stats.DropoutMean, 1e-9)
	assert.InDelta(t, 219.8, stats.PerformanceMean, 1e-9) // (40+30+20+10+999)/5
	assert.InDelta(t, -1.0, stats.DropoutPerformanceCorrelation, 1e-9)
}

func TestBuildGlobalStatistics_DegenerateCorrelation(t *testing.T) {
	table := mergedTable([]mergedRow{
		{"2019-2020", "A", "40", ""},
		{"2019-2020", "B", "", "20"},
	})

	stats, err := BuildGlobalStatistics(table)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.DropoutPerformanceCorrelation)
}

func TestBuildBranchAnalysis(t *testing.T) {
	table := mergedTable([]mergedRow{
		{"2019-2020", "Ciències", "0.90", "10"},
		{"2020-2021", "Ciències", "0.80", "15"},
		{"2021-2022", "Ciències", "0.70", "20"},
		{"2020-2021", "Salut", "0.85", "9"},
	})

	byBranch, err := BuildBranchAnalysis(table)
	require.NoError(t, err)
	require.Len(t, byBranch, 2)

	ciencies := byBranch["Ciències"]
	assert.InDelta(t, 15.0, ciencies.DropoutMean, 1e-9)
	assert.InDelta(t, 5.0, ciencies.DropoutStd, 1e-9) // sample std of {10,15,20}
	assert.InDelta(t, 10.0, ciencies.DropoutMin, 1e-9)
	assert.InDelta(t, 20.0, ciencies.DropoutMax, 1e-9)
	assert.InDelta(t, 0.8, ciencies.PerformanceMean, 1e-9)
	assert.Equal(t, TrendIncreasing, ciencies.DropoutTrend)
	assert.Equal(t, TrendDecreasing, ciencies.PerformanceTrend)

	// A single academic year has no defined slope
	salut := byBranch["Salut"]
	assert.Equal(t, TrendStable, salut.DropoutTrend)
	assert.Equal(t, TrendStable, salut.PerformanceTrend)
	assert.Equal(t, 0.0, salut.DropoutStd, "sample std undefined for one observation")
}

func TestBuildBranchAnalysis_YearMeansFeedTrend(t *testing.T) {
	// Per-year means are flat (15 each year) even though raw values vary,
	// so the trend must be stable.
	table := mergedTable([]mergedRow{
		{"2019-2020", "Arts", "0.8", "10"},
		{"2019-2020", "Arts", "0.8", "20"},
		{"2020-2021", "Arts", "0.8", "14"},
		{"2020-2021", "Arts", "0.8", "16"},
	})

	byBranch, err := BuildBranchAnalysis(table)
	require.NoError(t, err)
	assert.Equal(t, TrendStable, byBranch["Arts"].DropoutTrend)
}

func TestBuildBranchRanking_IncludesTies(t *testing.T) {
	table := mergedTable([]mergedRow{
		{"2019-2020", "Ciències", "0.90", "10"},
		{"2019-2020", "Enginyeria", "0.90", "12"},
		{"2019-2020", "Humanitats", "0.70", "12"},
		{"2019-2020", "Salut", "0.80", "5"},
	})

	ranking, err := BuildBranchRanking(table)
	require.NoError(t, err)

	assert.Equal(t, []string{"Ciències", "Enginyeria"}, ranking.BestPerformance)
	assert.Equal(t, []string{"Humanitats"}, ranking.WorstPerformance)
	assert.Equal(t, []string{"Enginyeria", "Humanitats"}, ranking.HighestDropout)
	assert.Equal(t, []string{"Salut"}, ranking.LowestDropout)
}

func TestAnalyze(t *testing.T) {
	table := mergedTable([]mergedRow{
		{"2019-2020", "Ciències", "0.82", "11.5"},
		{"2020-2021", "Ciències", "0.85", "10.2"},
		{"2019-2020", "Salut", "0.90", "8.1"},
	})

	report, err := Analyze(table, "run-xyz")
	require.NoError(t, err)

	assert.Equal(t, 3, report.Metadata.NumRecords)
	assert.Len(t, report.AnalysisByBranch, 2)
	assert.NotEmpty(t, report.RankingBranches.BestPerformance)
	assert.Equal(t, "run-xyz", report.Metadata.RunID)
}
