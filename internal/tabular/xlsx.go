package tabular

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSXFile reads the first sheet of a spreadsheet into a Table. The
// first row is the header; short rows are padded with blank cells.
func ReadXLSXFile(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("reading %s: no sheets", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: empty sheet", path)
	}

	table := NewTable(records[0])
	for _, record := range records[1:] {
		row := Row{}
		for i, h := range table.Headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		table.Append(row)
	}
	return table, nil
}

// WriteXLSXFile writes the table to a single-sheet spreadsheet.
func WriteXLSXFile(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t.Rows {
		record := make([]interface{}, len(t.Headers))
		for j, h := range t.Headers {
			record[j] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a metadata file, dispatching on its extension.
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx":
		return ReadXLSXFile(path)
	default:
		return nil, fmt.Errorf("unsupported metadata format: %s", filepath.Ext(path))
	}
}

// WriteFile writes a metadata file, dispatching on its extension.
func WriteFile(path string, t *Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSVFile(path, t)
	case ".xlsx":
		return WriteXLSXFile(path, t)
	default:
		return fmt.Errorf("unsupported metadata format: %s", filepath.Ext(path))
	}
}
