package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// sheetName is the single worksheet the examination table is written to
const sheetName = "Examinations"

// ExcelWriter writes examination tables as xlsx workbooks, for the clinics
// that hand the statistics file straight to Excel.
type ExcelWriter struct{}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter() *ExcelWriter {
	return &ExcelWriter{}
}

// Write writes the field selection as the first worksheet row followed by
// one row per record. Cell values use the same sanitized display strings as
// the CSV output.
func (w *ExcelWriter) Write(filePath string, options WriteOptions) error {
	slog.Info("Writing Excel file",
		slog.String("path", filePath),
		slog.Int("columns", len(options.Fields)),
		slog.Int("rows", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, 1, options.Fields); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for i, rec := range options.Records {
		if err := setRow(f, i+2, buildRow(rec, options.Fields)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// setRow writes a string row at the given 1-based row number
func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &cells)
}
