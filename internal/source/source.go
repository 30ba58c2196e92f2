// Package source reads survey exports into records.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/wearable-insights-go/internal/models"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoHeader is returned when the input has no header row.
	ErrNoHeader = errors.New("missing header row")
	// ErrUnsupportedFormat is returned for file extensions other than .csv and .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// Format returns the dataset format for path, based on its extension.
func Format(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFile reads a CSV or XLSX survey export. sheet is only used for XLSX;
// empty selects the first sheet.
func LoadFile(path, sheet string) ([]models.Record, error) {
	format, err := Format(path)
	if err != nil {
		return nil, err
	}
	if format == "xlsx" {
		return ReadXLSX(path, sheet)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses CSV with a header row. Rows may be ragged.
func ReadCSV(r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}
	return toRecords(header, rows), nil
}

// ReadXLSX reads one worksheet of an Excel workbook.
func ReadXLSX(path, sheet string) ([]models.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	return toRecords(rows[0], rows[1:]), nil
}

func toRecords(headerRow []string, rows [][]string) []models.Record {
	header := make([]string, len(headerRow))
	for i, h := range headerRow {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(models.Record, len(header))
		for i, val := range row {
			if i >= len(header) {
				break
			}
			rec[header[i]] = val
		}
		records = append(records, rec)
	}
	return records
}
