package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a temp dir so no stray config.yaml is picked up
	restore := chdirTemp(t)
	defer restore()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.Equal(t, "report", cfg.Paths.ReportsDir)
	assert.Equal(t, "img", cfg.Paths.ImagesDir)
	assert.Equal(t, "taxa_abandonament.xlsx", cfg.Paths.DropoutFile)
	assert.Equal(t, "rendiment_estudiants.xlsx", cfg.Paths.PerformanceFile)
}

func TestLoad_EnvOverride(t *testing.T) {
	restore := chdirTemp(t)
	defer restore()

	t.Setenv("UNISTATS_LOGGING_LEVEL", "debug")
	t.Setenv("UNISTATS_PATHS_DATA_DIR", "/srv/datasets")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/datasets", cfg.Paths.DataDir)
	// Untouched values keep defaults
	assert.Equal(t, "report", cfg.Paths.ReportsDir)
}

func TestLoad_FileOverlay(t *testing.T) {
	restore := chdirTemp(t)
	defer restore()

	yaml := `
logging:
  level: warn
paths:
  reports_dir: out/reports
  report_file: custom_report.json
  chart_file: custom_chart.png
  merged_csv_file: custom_merged.csv
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "out/reports", cfg.Paths.ReportsDir)
	assert.Equal(t, "custom_report.json", cfg.Paths.ReportFile)
	assert.Equal(t, "custom_chart.png", cfg.Paths.ChartFile)
	assert.Equal(t, "custom_merged.csv", cfg.Paths.MergedCSVFile)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	restore := chdirTemp(t)
	defer restore()

	yaml := `
logging:
  level: warn
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0644))
	t.Setenv("UNISTATS_LOGGING_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_InvalidLevel(t *testing.T) {
	restore := chdirTemp(t)
	defer restore()

	t.Setenv("UNISTATS_LOGGING_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
		{
			name:    "bad output",
			mutate:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: "invalid logging output",
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.Paths.DataDir = "" },
			wantErr: "data directory",
		},
		{
			name:    "empty reports dir",
			mutate:  func(c *Config) { c.Paths.ReportsDir = "" },
			wantErr: "reports directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewPaths(t *testing.T) {
	paths := NewPaths(Default().Paths)

	assert.Equal(t, filepath.Join("data", "taxa_abandonament.xlsx"), paths.DropoutFile)
	assert.Equal(t, filepath.Join("data", "rendiment_estudiants.xlsx"), paths.PerformanceFile)
	assert.Equal(t, filepath.Join("report", "analisi_estadistic.json"), paths.ReportFile)
	assert.Equal(t, filepath.Join("img", "evolucio_taxes.png"), paths.ChartFile)
	assert.Equal(t, filepath.Join("report", "merged_dataset.csv"), paths.MergedCSVFile)
}

func TestEnsureDirectories(t *testing.T) {
	tmp := t.TempDir()
	paths := NewPaths(PathsConfig{
		DataDir:    filepath.Join(tmp, "data"),
		ReportsDir: filepath.Join(tmp, "report"),
		ImagesDir:  filepath.Join(tmp, "img"),
	})

	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, filepath.Join(tmp, "report"))
	assert.DirExists(t, filepath.Join(tmp, "img"))
	// Input directory is not created
	assert.NoDirExists(t, filepath.Join(tmp, "data"))
}

// chdirTemp switches to a fresh temp dir for the duration of a test.
func chdirTemp(t *testing.T) func() {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	return func() {
		_ = os.Chdir(orig)
	}
}
