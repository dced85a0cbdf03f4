// Package chart renders the evolution figure: two side-by-side line-chart
// panels showing the per-year mean dropout and performance rates, one line
// per study branch.
package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"unistats/internal/dataset"
)

// Panel dimensions of the output figure.
const (
	figureWidth  = 14 * vg.Inch
	figureHeight = 5 * vg.Inch
)

// PlotEvolution renders the two-panel evolution chart of the merged table
// to a PNG file at path. Branch colors are assigned over the sorted branch
// names, so the palette is stable across runs. The target directory is
// created if absent.
func PlotEvolution(t *dataset.Table, path string) error {
	branches, years, err := axes(t)
	if err != nil {
		return err
	}

	left, err := buildPanel(t, branches, years,
		dataset.ColDropoutRate,
		"Evolution of dropout rate by academic year",
		"Dropout rate")
	if err != nil {
		return err
	}
	right, err := buildPanel(t, branches, years,
		dataset.ColPerformanceRate,
		"Evolution of performance rate by academic year",
		"Performance rate")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	return savePanels(left, right, path)
}

// axes returns the sorted distinct branches and academic years.
func axes(t *dataset.Table) (branches, years []string, err error) {
	branchCol, err := t.Column(dataset.ColBranch)
	if err != nil {
		return nil, nil, err
	}
	yearCol, err := t.Column(dataset.ColAcademicYear)
	if err != nil {
		return nil, nil, err
	}
	branches = sortedDistinct(branchCol)
	years = sortedDistinct(yearCol)
	return branches, years, nil
}

// buildPanel creates one panel with a per-year mean line per branch.
func buildPanel(t *dataset.Table, branches, years []string, metric, title, yLabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Academic year"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.NominalX(years...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Legend.Top = true

	values, err := t.Floats(metric)
	if err != nil {
		return nil, err
	}
	branchCol, err := t.Column(dataset.ColBranch)
	if err != nil {
		return nil, err
	}
	yearCol, err := t.Column(dataset.ColAcademicYear)
	if err != nil {
		return nil, err
	}

	yearIndex := make(map[string]int, len(years))
	for i, y := range years {
		yearIndex[y] = i
	}

	for i, branch := range branches {
		pts := branchSeries(branch, branchCol, yearCol, values, yearIndex)
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to build series for branch %s: %w", branch, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.Legend.Add(branch, line, points)
	}
	return p, nil
}

// branchSeries computes the per-year mean of one branch's metric, keyed to
// the nominal year axis. Years with no observed value are skipped.
func branchSeries(branch string, branchCol, yearCol []string, values []float64, yearIndex map[string]int) plotter.XYs {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i := range branchCol {
		if branchCol[i] != branch || math.IsNaN(values[i]) {
			continue
		}
		idx := yearIndex[yearCol[i]]
		sums[idx] += values[i]
		counts[idx]++
	}

	xs := make([]int, 0, len(counts))
	for x := range counts {
		xs = append(xs, x)
	}
	sort.Ints(xs)

	pts := make(plotter.XYs, 0, len(xs))
	for _, x := range xs {
		pts = append(pts, plotter.XY{X: float64(x), Y: sums[x] / float64(counts[x])})
	}
	return pts
}

// savePanels tiles the two panels side by side and writes the PNG.
func savePanels(left, right *plot.Plot, path string) error {
	img := vgimg.New(figureWidth, figureHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}

	plots := [][]*plot.Plot{{left, right}}
	canvases := plot.Align(plots, tiles, dc)
	left.Draw(canvases[0][0])
	right.Draw(canvases[0][1])

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer w.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

func sortedDistinct(values []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
