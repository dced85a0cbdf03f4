package dataset

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "unistats/internal/errors"
)

// Kind identifies which of the two logical datasets a table holds.
type Kind int

const (
	KindUnknown Kind = iota
	KindDropout
	KindPerformance
)

// Path fragments used to classify a loaded file.
const (
	dropoutPathFragment     = "taxa_abandonament"
	performancePathFragment = "rendiment_estudiants"
)

// String returns the dataset's logical name.
func (k Kind) String() string {
	switch k {
	case KindDropout:
		return "taxa_abandonament"
	case KindPerformance:
		return "rendiment_estudiants"
	default:
		return "unknown"
	}
}

// MetricColumn returns the metric column this dataset kind carries.
func (k Kind) MetricColumn() string {
	switch k {
	case KindDropout:
		return ColDropoutRate
	case KindPerformance:
		return ColPerformanceRate
	default:
		return ""
	}
}

// KindFromPath classifies a file path by its well-known name fragment.
func KindFromPath(path string) Kind {
	switch {
	case strings.Contains(path, dropoutPathFragment):
		return KindDropout
	case strings.Contains(path, performancePathFragment):
		return KindPerformance
	default:
		return KindUnknown
	}
}

// Dataset is a loaded table tagged with its kind and origin path.
type Dataset struct {
	Kind  Kind
	Path  string
	Table *Table
}

// Load reads a spreadsheet file into a tagged dataset. The first sheet is
// used; its first row is the header. Rows that are entirely empty are
// skipped.
func Load(path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(path)
		}
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to stat %s", path), err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to open spreadsheet %s", path), err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("failed to read sheet %q of %s", sheet, path), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("sheet %q of %s has no header row", sheet, path), nil)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	table := NewTable(header)
	for _, row := range rows[1:] {
		if rowIsEmpty(row) {
			continue
		}
		table.AppendRow(row)
	}

	return &Dataset{
		Kind:  KindFromPath(path),
		Path:  path,
		Table: table,
	}, nil
}

// LoadChoice resolves a manual-selection option against the two default
// dataset paths and loads the chosen one. Option "1" is the performance
// dataset, "2" the dropout dataset; anything else is an INVALID_INPUT
// error.
func LoadChoice(option, performancePath, dropoutPath string) (*Dataset, error) {
	switch strings.TrimSpace(option) {
	case "1":
		return Load(performancePath)
	case "2":
		return Load(dropoutPath)
	default:
		return nil, apperrors.NewInvalidInputError(option)
	}
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
