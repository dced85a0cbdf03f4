// Command unistats runs the university dropout/performance analysis
// pipeline: dataset loading and EDA, cleaning and merging, chart
// rendering, and the statistical JSON report.
//
// Usage:
//
//	unistats            run all four stages
//	unistats -e 2       run stages 1 and 2 only
//	unistats -m         select datasets interactively instead of using
//	                    the default paths
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"unistats/internal/config"
	"unistats/internal/infrastructure"
	"unistats/internal/operations"
)

const allStages = 4

func main() {
	var exercise int
	var manual bool
	flag.IntVar(&exercise, "e", 0, "run stages up to the given number (1-4, default all)")
	flag.IntVar(&exercise, "exercise", 0, "run stages up to the given number (1-4, default all)")
	flag.BoolVar(&manual, "m", false, "load datasets interactively instead of from the default paths")
	flag.BoolVar(&manual, "manual", false, "load datasets interactively instead of from the default paths")
	flag.Parse()

	if exercise == 0 {
		exercise = allStages
	}
	if exercise < 1 || exercise > allStages {
		fmt.Fprintf(os.Stderr, "invalid -e value %d: must be between 1 and %d\n", exercise, allStages)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("failed to create output directories", slog.Any("error", err))
		os.Exit(1)
	}

	state := &operations.State{
		Manual: manual,
		Paths:  paths,
		Input:  os.Stdin,
		Output: os.Stdout,
	}

	manager := operations.NewManager(logger, operations.NewSteps(logger)...)
	if err := manager.Run(context.Background(), state, exercise); err != nil {
		logger.Error("pipeline failed", slog.Any("error", err))
		os.Exit(1)
	}
}
