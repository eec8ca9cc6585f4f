// Package parser reads uploaded spreadsheets (XLSX or CSV) and turns the
// raw rows into standardized client records.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoDataRows is returned for files with fewer than one header row plus one
// data row. The import aborts before any audit record is created.
var ErrNoDataRows = errors.New("file must contain headers and at least one data row")

// Sheet is a parsed spreadsheet: the header row plus all non-empty data rows,
// in file order. Cells are raw strings; date cells keep their serial value.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// Parse reads raw file bytes into a Sheet. The format is picked from the
// filename extension: xlsx/xls parse as Excel, everything else as CSV.
func Parse(filename string, data []byte) (*Sheet, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		rows, err = parseExcel(data)
	default:
		rows, err = parseCSV(data)
	}
	if err != nil {
		return nil, err
	}

	rows = dropEmptyRows(rows)
	if len(rows) < 2 {
		return nil, ErrNoDataRows
	}

	return &Sheet{Headers: rows[0], Rows: rows[1:]}, nil
}

// parseExcel reads the first sheet of an Excel workbook. RawCellValue keeps
// date cells as their serial number so the coercer can apply the epoch math.
func parseExcel(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{
		RawCellValue: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func dropEmptyRows(rows [][]string) [][]string {
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !rowEmpty(row) {
			kept = append(kept, row)
		}
	}
	return kept
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
