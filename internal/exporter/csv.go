// Package exporter persists tabular artifacts as CSV files.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"unistats/internal/dataset"
)

// CSVWriter provides CSV export functionality for pipeline tables.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	// BOMPrefix adds a UTF-8 BOM so spreadsheet tools recognize the
	// Catalan headers as UTF-8.
	BOMPrefix bool
	// MetricColumns are formatted with exactly two decimal places.
	MetricColumns []string
}

// WriteTable writes a table to a CSV file, creating the directory if
// needed.
func (w *CSVWriter) WriteTable(path string, t *dataset.Table, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	metric := make(map[int]bool)
	for _, col := range options.MetricColumns {
		if idx := t.ColumnIndex(col); idx >= 0 {
			metric[idx] = true
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cell
			if !metric[i] {
				continue
			}
			if v, ok, err := dataset.ParseCellFloat(cell); err == nil && ok {
				record[i] = formatFloat(v)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
