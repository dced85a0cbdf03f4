// Package analysis computes the statistical report over the merged table:
// metadata, global statistics, per-branch descriptives with trend
// classification, and branch rankings, serialized as a JSON report.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"unistats/internal/dataset"
)

// Trend labels for a branch metric over time.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// slopeThreshold is the regression slope magnitude below which a metric is
// considered stable.
const slopeThreshold = 0.01

// Metadata describes the analyzed table.
type Metadata struct {
	CurrentDate string   `json:"current_date"`
	NumRecords  int      `json:"num_records"`
	TimePeriod  []string `json:"time_period"`
	RunID       string   `json:"run_id,omitempty"`
}

// GlobalStatistics holds dataset-wide indicators.
type GlobalStatistics struct {
	DropoutMean                   float64 `json:"dropout_mean"`
	PerformanceMean               float64 `json:"performance_mean"`
	DropoutPerformanceCorrelation float64 `json:"dropout_performance_correlation"`
}

// BranchStats holds the per-branch descriptive statistics and trends.
type BranchStats struct {
	DropoutMean      float64 `json:"dropout_mean"`
	DropoutStd       float64 `json:"dropout_std"`
	DropoutMin       float64 `json:"dropout_min"`
	DropoutMax       float64 `json:"dropout_max"`
	PerformanceMean  float64 `json:"performance_mean"`
	PerformanceStd   float64 `json:"performance_std"`
	PerformanceMin   float64 `json:"performance_min"`
	PerformanceMax   float64 `json:"performance_max"`
	DropoutTrend     string  `json:"dropout_trend"`
	PerformanceTrend string  `json:"performance_trend"`
}

// BranchRanking lists the branches holding each metric extreme, ties
// included.
type BranchRanking struct {
	BestPerformance  []string `json:"best_performance"`
	WorstPerformance []string `json:"worst_performance"`
	HighestDropout   []string `json:"highest_dropout"`
	LowestDropout    []string `json:"lowest_dropout"`
}

// Report is the complete analysis output.
type Report struct {
	Metadata         Metadata               `json:"metadata"`
	GlobalStatistics GlobalStatistics       `json:"global_statistics"`
	AnalysisByBranch map[string]BranchStats `json:"analysis_by_branch"`
	RankingBranches  BranchRanking          `json:"ranking_branches"`
}

// Analyze runs the complete statistical analysis of the merged table.
func Analyze(t *dataset.Table, runID string) (*Report, error) {
	metadata, err := BuildMetadata(t, runID)
	if err != nil {
		return nil, fmt.Errorf("building metadata: %w", err)
	}
	global, err := BuildGlobalStatistics(t)
	if err != nil {
		return nil, fmt.Errorf("building global statistics: %w", err)
	}
	byBranch, err := BuildBranchAnalysis(t)
	if err != nil {
		return nil, fmt.Errorf("building branch analysis: %w", err)
	}
	ranking, err := BuildBranchRanking(t)
	if err != nil {
		return nil, fmt.Errorf("building branch ranking: %w", err)
	}

	return &Report{
		Metadata:         metadata,
		GlobalStatistics: global,
		AnalysisByBranch: byBranch,
		RankingBranches:  ranking,
	}, nil
}

// BuildMetadata returns the report metadata: date-only timestamp, record
// count, and the sorted distinct set of academic years.
func BuildMetadata(t *dataset.Table, runID string) (Metadata, error) {
	years, err := distinctYears(t)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		CurrentDate: time.Now().Format("2006-01-02"),
		NumRecords:  t.NumRows(),
		TimePeriod:  years,
		RunID:       runID,
	}, nil
}

// BuildGlobalStatistics computes the metric means and the Pearson
// correlation between dropout and performance. The correlation uses
// pairwise-complete rows only: a row missing either value is excluded from
// both series.
func BuildGlobalStatistics(t *dataset.Table) (GlobalStatistics, error) {
	dropout, err := t.Floats(dataset.ColDropoutRate)
	if err != nil {
		return GlobalStatistics{}, err
	}
	performance, err := t.Floats(dataset.ColPerformanceRate)
	if err != nil {
		return GlobalStatistics{}, err
	}

	var pairDrop, pairPerf []float64
	for i := range dropout {
		if math.IsNaN(dropout[i]) || math.IsNaN(performance[i]) {
			continue
		}
		pairDrop = append(pairDrop, dropout[i])
		pairPerf = append(pairPerf, performance[i])
	}

	return GlobalStatistics{
		DropoutMean:                   round2(meanObserved(dropout)),
		PerformanceMean:               round2(meanObserved(performance)),
		DropoutPerformanceCorrelation: round2(correlation(pairDrop, pairPerf)),
	}, nil
}

// BuildBranchAnalysis computes descriptive statistics and trends for every
// distinct branch.
func BuildBranchAnalysis(t *dataset.Table) (map[string]BranchStats, error) {
	branches, err := t.Column(dataset.ColBranch)
	if err != nil {
		return nil, err
	}
	years, err := t.Column(dataset.ColAcademicYear)
	if err != nil {
		return nil, err
	}
	dropout, err := t.Floats(dataset.ColDropoutRate)
	if err != nil {
		return nil, err
	}
	performance, err := t.Floats(dataset.ColPerformanceRate)
	if err != nil {
		return nil, err
	}

	out := make(map[string]BranchStats)
	for _, branch := range branches {
		if _, done := out[branch]; done {
			continue
		}
		var branchYears []string
		var branchDrop, branchPerf []float64
		for j := range branches {
			if branches[j] != branch {
				continue
			}
			branchYears = append(branchYears, years[j])
			branchDrop = append(branchDrop, dropout[j])
			branchPerf = append(branchPerf, performance[j])
		}
		out[branch] = BranchStats{
			DropoutMean:      round2(meanObserved(branchDrop)),
			DropoutStd:       round2(stdObserved(branchDrop)),
			DropoutMin:       round2(minObserved(branchDrop)),
			DropoutMax:       round2(maxObserved(branchDrop)),
			PerformanceMean:  round2(meanObserved(branchPerf)),
			PerformanceStd:   round2(stdObserved(branchPerf)),
			PerformanceMin:   round2(minObserved(branchPerf)),
			PerformanceMax:   round2(maxObserved(branchPerf)),
			DropoutTrend:     CalculateTrend(yearlyMeans(branchYears, branchDrop)),
			PerformanceTrend: CalculateTrend(yearlyMeans(branchYears, branchPerf)),
		}
	}
	return out, nil
}

// BuildBranchRanking averages each metric per branch and reports the
// branches holding the column maximum and minimum, ties included.
func BuildBranchRanking(t *dataset.Table) (BranchRanking, error) {
	branches, err := t.Column(dataset.ColBranch)
	if err != nil {
		return BranchRanking{}, err
	}
	dropout, err := t.Floats(dataset.ColDropoutRate)
	if err != nil {
		return BranchRanking{}, err
	}
	performance, err := t.Floats(dataset.ColPerformanceRate)
	if err != nil {
		return BranchRanking{}, err
	}

	perfMeans := make(map[string]float64)
	dropMeans := make(map[string]float64)
	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, b := range branches {
		if !seen[b] {
			seen[b] = true
			names = append(names, b)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var drops, perfs []float64
		for i, b := range branches {
			if b != name {
				continue
			}
			drops = append(drops, dropout[i])
			perfs = append(perfs, performance[i])
		}
		dropMeans[name] = meanObserved(drops)
		perfMeans[name] = meanObserved(perfs)
	}

	return BranchRanking{
		BestPerformance:  extremes(names, perfMeans, true),
		WorstPerformance: extremes(names, perfMeans, false),
		HighestDropout:   extremes(names, dropMeans, true),
		LowestDropout:    extremes(names, dropMeans, false),
	}, nil
}

// extremes returns the branches whose mean equals the column maximum (or
// minimum), ties included. Branches with no observed values are ignored.
func extremes(names []string, means map[string]float64, wantMax bool) []string {
	target := math.NaN()
	for _, name := range names {
		m := means[name]
		if math.IsNaN(m) {
			continue
		}
		if math.IsNaN(target) || (wantMax && m > target) || (!wantMax && m < target) {
			target = m
		}
	}

	out := make([]string, 0, 1)
	if math.IsNaN(target) {
		return out
	}
	for _, name := range names {
		if means[name] == target {
			out = append(out, name)
		}
	}
	return out
}

// CalculateTrend classifies a sequence of per-year means by the sign of
// its ordinary least squares slope against the index 0..n-1. Sequences
// shorter than two points have no defined slope and count as stable.
func CalculateTrend(series []float64) string {
	if len(series) < 2 {
		return TrendStable
	}
	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, series, nil, false)
	switch {
	case slope > slopeThreshold:
		return TrendIncreasing
	case slope < -slopeThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// yearlyMeans averages a metric per academic year and returns the means in
// ascending year order. Years with no observed value are skipped.
func yearlyMeans(years []string, values []float64) []float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, y := range years {
		if math.IsNaN(values[i]) {
			continue
		}
		sums[y] += values[i]
		counts[y]++
	}

	distinct := make([]string, 0, len(counts))
	for y := range counts {
		distinct = append(distinct, y)
	}
	sort.Strings(distinct)

	out := make([]float64, len(distinct))
	for i, y := range distinct {
		out[i] = sums[y] / float64(counts[y])
	}
	return out
}

// distinctYears returns the sorted distinct academic-year values.
func distinctYears(t *dataset.Table) ([]string, error) {
	years, err := t.Column(dataset.ColAcademicYear)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, y := range years {
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	sort.Strings(out)
	return out, nil
}

// meanObserved averages the non-missing values of a series.
func meanObserved(values []float64) float64 {
	observed := dropNaN(values)
	if len(observed) == 0 {
		return math.NaN()
	}
	return stat.Mean(observed, nil)
}

// stdObserved computes the sample standard deviation of the non-missing
// values. Fewer than two observations have no sample deviation.
func stdObserved(values []float64) float64 {
	observed := dropNaN(values)
	if len(observed) < 2 {
		return math.NaN()
	}
	return stat.StdDev(observed, nil)
}

func minObserved(values []float64) float64 {
	min := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

func maxObserved(values []float64) float64 {
	max := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// correlation computes the Pearson correlation over two equally sized
// series. Degenerate inputs (fewer than two pairs, zero variance) yield 0.
func correlation(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// round2 rounds to two decimals. Undefined statistics collapse to 0 so the
// report stays valid JSON with a fixed schema.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
