package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all resolved application paths.
// This is the single source of truth for file locations in the pipeline.
type Paths struct {
	DataDir    string
	ReportsDir string
	ImagesDir  string

	// Input datasets
	DropoutFile     string
	PerformanceFile string

	// Output artifacts
	ReportFile    string
	ChartFile     string
	MergedCSVFile string
}

// NewPaths resolves all paths from the configuration.
func NewPaths(cfg PathsConfig) *Paths {
	return &Paths{
		DataDir:         cfg.DataDir,
		ReportsDir:      cfg.ReportsDir,
		ImagesDir:       cfg.ImagesDir,
		DropoutFile:     filepath.Join(cfg.DataDir, cfg.DropoutFile),
		PerformanceFile: filepath.Join(cfg.DataDir, cfg.PerformanceFile),
		ReportFile:      filepath.Join(cfg.ReportsDir, cfg.ReportFile),
		ChartFile:       filepath.Join(cfg.ImagesDir, cfg.ChartFile),
		MergedCSVFile:   filepath.Join(cfg.ReportsDir, cfg.MergedCSVFile),
	}
}

// EnsureDirectories creates the output directories if they do not exist.
// The data directory is an input location and is deliberately not created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.ImagesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
