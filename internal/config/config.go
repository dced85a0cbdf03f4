// Package config centralizes application configuration and file system
// paths. Configuration is loaded from environment variables (UNISTATS_*
// prefix) with an optional YAML overlay for values not set in the
// environment.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/unistats.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir         string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir      string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"report"`
	ImagesDir       string `yaml:"images_dir" envconfig:"IMAGES_DIR" default:"img"`
	DropoutFile     string `yaml:"dropout_file" envconfig:"DROPOUT_FILE" default:"taxa_abandonament.xlsx"`
	PerformanceFile string `yaml:"performance_file" envconfig:"PERFORMANCE_FILE" default:"rendiment_estudiants.xlsx"`
	ReportFile      string `yaml:"report_file" envconfig:"REPORT_FILE" default:"analisi_estadistic.json"`
	ChartFile       string `yaml:"chart_file" envconfig:"CHART_FILE" default:"evolucio_taxes.png"`
	MergedCSVFile   string `yaml:"merged_csv_file" envconfig:"MERGED_CSV_FILE" default:"merged_dataset.csv"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("UNISTATS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile reads configuration from a YAML file
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// mergeConfigs merges file config into env config. Environment values take
// priority: file values only fill fields the environment left unset.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig
	defaults := Default()

	if fileConfig.Logging.Level != "" && merged.Logging.Level == defaults.Logging.Level && os.Getenv("UNISTATS_LOGGING_LEVEL") == "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && merged.Logging.Format == defaults.Logging.Format && os.Getenv("UNISTATS_LOGGING_FORMAT") == "" {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" && merged.Logging.Output == defaults.Logging.Output && os.Getenv("UNISTATS_LOGGING_OUTPUT") == "" {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && merged.Logging.FilePath == defaults.Logging.FilePath && os.Getenv("UNISTATS_LOGGING_FILE_PATH") == "" {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}

	if fileConfig.Paths.DataDir != "" && merged.Paths.DataDir == defaults.Paths.DataDir && os.Getenv("UNISTATS_PATHS_DATA_DIR") == "" {
		merged.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if fileConfig.Paths.ReportsDir != "" && merged.Paths.ReportsDir == defaults.Paths.ReportsDir && os.Getenv("UNISTATS_PATHS_REPORTS_DIR") == "" {
		merged.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if fileConfig.Paths.ImagesDir != "" && merged.Paths.ImagesDir == defaults.Paths.ImagesDir && os.Getenv("UNISTATS_PATHS_IMAGES_DIR") == "" {
		merged.Paths.ImagesDir = fileConfig.Paths.ImagesDir
	}
	if fileConfig.Paths.DropoutFile != "" && merged.Paths.DropoutFile == defaults.Paths.DropoutFile && os.Getenv("UNISTATS_PATHS_DROPOUT_FILE") == "" {
		merged.Paths.DropoutFile = fileConfig.Paths.DropoutFile
	}
	if fileConfig.Paths.PerformanceFile != "" && merged.Paths.PerformanceFile == defaults.Paths.PerformanceFile && os.Getenv("UNISTATS_PATHS_PERFORMANCE_FILE") == "" {
		merged.Paths.PerformanceFile = fileConfig.Paths.PerformanceFile
	}
	if fileConfig.Paths.ReportFile != "" && merged.Paths.ReportFile == defaults.Paths.ReportFile && os.Getenv("UNISTATS_PATHS_REPORT_FILE") == "" {
		merged.Paths.ReportFile = fileConfig.Paths.ReportFile
	}
	if fileConfig.Paths.ChartFile != "" && merged.Paths.ChartFile == defaults.Paths.ChartFile && os.Getenv("UNISTATS_PATHS_CHART_FILE") == "" {
		merged.Paths.ChartFile = fileConfig.Paths.ChartFile
	}
	if fileConfig.Paths.MergedCSVFile != "" && merged.Paths.MergedCSVFile == defaults.Paths.MergedCSVFile && os.Getenv("UNISTATS_PATHS_MERGED_CSV_FILE") == "" {
		merged.Paths.MergedCSVFile = fileConfig.Paths.MergedCSVFile
	}

	return merged
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	if c.Paths.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if c.Paths.ReportsDir == "" {
		return fmt.Errorf("reports directory must not be empty")
	}
	if c.Paths.ImagesDir == "" {
		return fmt.Errorf("images directory must not be empty")
	}

	return nil
}

// getConfigFilePath checks for a config file in common locations
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "console",
			FilePath: "logs/unistats.log",
		},
		Paths: PathsConfig{
			DataDir:         "data",
			ReportsDir:      "report",
			ImagesDir:       "img",
			DropoutFile:     "taxa_abandonament.xlsx",
			PerformanceFile: "rendiment_estudiants.xlsx",
			ReportFile:      "analisi_estadistic.json",
			ChartFile:       "evolucio_taxes.png",
			MergedCSVFile:   "merged_dataset.csv",
		},
	}
}
