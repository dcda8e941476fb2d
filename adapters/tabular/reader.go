// Package tabular reads historical cohort data from CSV and Excel files
// into typed frames.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"plaquerisk/domain/dataset"
	"plaquerisk/domain/feature"
)

// CohortReader reads a baseline dataset file. It implements
// ports.CohortSource so file-backed and database-backed cohorts are
// interchangeable at load time.
type CohortReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	schema   feature.Schema
}

// NewCohortReader creates a reader that handles both Excel and CSV files,
// coercing cells against the given schema.
func NewCohortReader(filePath string, schema feature.Schema) *CohortReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &CohortReader{filePath: filePath, fileType: fileType, schema: schema}
}

// FetchCohort implements ports.CohortSource.
func (r *CohortReader) FetchCohort(ctx context.Context) (*dataset.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Read()
}

// Read loads the file into a typed frame.
func (r *CohortReader) Read() (*dataset.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have a header row and at least one data row", r.fileType)
	}
	return r.processRows(rows)
}

func (r *CohortReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *CohortReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always read the first sheet.
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// processRows converts raw string rows into a typed frame. Cells under a
// declared feature column are coerced to that feature's kind; columns
// outside the schema are kept as plain strings and simply ignored by the
// baseline builder.
func (r *CohortReader) processRows(rows [][]string) (*dataset.Frame, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	fields := make([]feature.Field, len(headerRow))
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		headers[i] = name
		if f, ok := r.schema.Lookup(name); ok {
			fields[i] = f
		} else {
			fields[i] = feature.Field{Name: name, Kind: feature.KindCategorical}
		}
	}

	frame := dataset.NewFrame(headers)
	for _, raw := range rows[1:] {
		row := make([]feature.Value, len(headers))
		for i := range headers {
			if i < len(raw) {
				row[i] = feature.CoerceRaw(fields[i], raw[i])
			} else {
				row[i] = feature.NewMissingValue()
			}
		}
		frame.AppendRow(row)
	}
	return frame, nil
}
