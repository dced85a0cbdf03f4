package operations

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"

	"unistats/internal/analysis"
	"unistats/internal/chart"
	"unistats/internal/dataset"
	apperrors "unistats/internal/errors"
	"unistats/internal/exporter"
	"unistats/internal/pipeline"
)

// NewSteps returns the four pipeline steps in execution order.
func NewSteps(logger *slog.Logger) []Step {
	if logger == nil {
		logger = slog.Default()
	}
	return []Step{
		&LoadStep{logger: logger},
		&CleanMergeStep{logger: logger, csv: exporter.NewCSVWriter(logger)},
		&VisualizeStep{logger: logger},
		&AnalyzeStep{logger: logger},
	}
}

// LoadStep loads both datasets and prints their exploratory summaries.
type LoadStep struct {
	logger *slog.Logger
}

func (s *LoadStep) ID() string   { return StepIDLoad }
func (s *LoadStep) Name() string { return "Dataset loading and EDA" }

func (s *LoadStep) Validate(state *State) error {
	if state.Paths == nil {
		return apperrors.NewConfigError("paths not configured", nil)
	}
	if state.Manual && state.Input == nil {
		return apperrors.NewConfigError("manual mode requires console input", nil)
	}
	return nil
}

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	if state.Manual {
		return s.loadManual(state)
	}
	return s.loadAutomatic(state)
}

func (s *LoadStep) loadAutomatic(state *State) error {
	drop, err := dataset.Load(state.Paths.DropoutFile)
	if err != nil {
		return err
	}
	s.logger.Info("dataset loaded",
		slog.String("kind", drop.Kind.String()),
		slog.String("path", drop.Path),
		slog.Int("rows", drop.Table.NumRows()))
	dataset.Explore(state.Output, drop)
	state.Dropout = drop

	perf, err := dataset.Load(state.Paths.PerformanceFile)
	if err != nil {
		return err
	}
	s.logger.Info("dataset loaded",
		slog.String("kind", perf.Kind.String()),
		slog.String("path", perf.Path),
		slog.Int("rows", perf.Table.NumRows()))
	dataset.Explore(state.Output, perf)
	state.Performance = perf

	return nil
}

// loadManual asks the user which dataset to load until both are present.
// An option outside the menu is fatal, matching the batch error policy.
func (s *LoadStep) loadManual(state *State) error {
	scanner := bufio.NewScanner(state.Input)

	for state.Performance == nil || state.Dropout == nil {
		fmt.Fprintln(state.Output, "\nSelect dataset to load:")
		fmt.Fprintln(state.Output, "1 - rendiment_estudiants.xlsx")
		fmt.Fprintln(state.Output, "2 - taxa_abandonament.xlsx")
		fmt.Fprint(state.Output, "Option: ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading console input: %w", err)
			}
			return apperrors.NewInvalidInputError("<eof>")
		}

		ds, err := dataset.LoadChoice(scanner.Text(), state.Paths.PerformanceFile, state.Paths.DropoutFile)
		if err != nil {
			return err
		}

		switch ds.Kind {
		case dataset.KindDropout:
			state.Dropout = ds
			fmt.Fprintln(state.Output, "Detected dataset: *taxa_abandonament* successfully loaded.")
		case dataset.KindPerformance:
			state.Performance = ds
			fmt.Fprintln(state.Output, "Detected dataset: *rendiment_estudiants* successfully loaded.")
		default:
			s.logger.Warn("loaded file matches no known dataset", slog.String("path", ds.Path))
		}
		dataset.Explore(state.Output, ds)

		fmt.Fprintln(state.Output, "\nCurrent loading status:")
		fmt.Fprintf(state.Output, "  - *taxa_abandonament* loaded: %t\n", state.Dropout != nil)
		fmt.Fprintf(state.Output, "  - *rendiment_estudiants* loaded: %t\n", state.Performance != nil)
	}

	fmt.Fprintln(state.Output, "\nBoth datasets have been successfully loaded.")
	return nil
}

// CleanMergeStep cleans both datasets, merges them, and exports the merged
// table as CSV.
type CleanMergeStep struct {
	logger *slog.Logger
	csv    *exporter.CSVWriter
}

func (s *CleanMergeStep) ID() string   { return StepIDCleanMerge }
func (s *CleanMergeStep) Name() string { return "Data cleaning and merging" }

func (s *CleanMergeStep) Validate(state *State) error {
	if state.Dropout == nil || state.Performance == nil {
		return apperrors.NewEmptyDatasetError("both datasets must be loaded before cleaning")
	}
	return nil
}

func (s *CleanMergeStep) Execute(ctx context.Context, state *State) error {
	dropout, err := pipeline.Clean(state.Dropout)
	if err != nil {
		return err
	}
	s.logger.Info("dataset cleaned",
		slog.String("kind", state.Dropout.Kind.String()),
		slog.Int("rows", dropout.NumRows()))

	performance, err := pipeline.Clean(state.Performance)
	if err != nil {
		return err
	}
	s.logger.Info("dataset cleaned",
		slog.String("kind", state.Performance.Kind.String()),
		slog.Int("rows", performance.NumRows()))

	merged, err := pipeline.MergeDatasets(performance, dropout)
	if err != nil {
		return err
	}
	s.logger.Info("datasets merged", slog.Int("rows", merged.NumRows()))
	state.Merged = merged

	return s.csv.WriteTable(state.Paths.MergedCSVFile, merged, exporter.WriteOptions{
		BOMPrefix:     true,
		MetricColumns: []string{dataset.ColDropoutRate, dataset.ColPerformanceRate},
	})
}

// VisualizeStep renders the two-panel evolution chart.
type VisualizeStep struct {
	logger *slog.Logger
}

func (s *VisualizeStep) ID() string   { return StepIDVisualize }
func (s *VisualizeStep) Name() string { return "Data visualization" }

func (s *VisualizeStep) Validate(state *State) error {
	if state.Merged == nil {
		return apperrors.NewEmptyDatasetError("merged dataset not available for visualization")
	}
	return nil
}

func (s *VisualizeStep) Execute(ctx context.Context, state *State) error {
	if err := chart.PlotEvolution(state.Merged, state.Paths.ChartFile); err != nil {
		return err
	}
	s.logger.Info("chart written", slog.String("path", state.Paths.ChartFile))
	return nil
}

// AnalyzeStep computes the statistical report and writes it as JSON.
type AnalyzeStep struct {
	logger *slog.Logger
}

func (s *AnalyzeStep) ID() string   { return StepIDAnalyze }
func (s *AnalyzeStep) Name() string { return "Automated statistical analysis" }

func (s *AnalyzeStep) Validate(state *State) error {
	if state.Merged == nil {
		return apperrors.NewEmptyDatasetError("merged dataset not available for analysis")
	}
	return nil
}

func (s *AnalyzeStep) Execute(ctx context.Context, state *State) error {
	report, err := analysis.Analyze(state.Merged, state.RunID)
	if err != nil {
		return err
	}
	if err := analysis.WriteReport(report, state.Paths.ReportFile); err != nil {
		return err
	}
	s.logger.Info("report written",
		slog.String("path", state.Paths.ReportFile),
		slog.Int("branches", len(report.AnalysisByBranch)))
	return nil
}
