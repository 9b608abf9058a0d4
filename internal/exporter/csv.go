package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cbctcli/internal/header"
)

// Delimiter is the field separator for CSV output. Semicolon keeps the
// files double-clickable in the Excel locales the clinic uses.
const Delimiter = ';'

// WriteOptions configures table writing behavior
type WriteOptions struct {
	Fields    []string
	Records   []*header.Record
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter writes examination tables as semicolon-delimited text
type CSVWriter struct{}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Write writes one header row followed by one row per record, in record
// order. Absent attributes become empty columns. Values are sanitized and
// then quoted by the csv encoder where still required, so rows read back
// with the same delimiter keep their column count.
func (w *CSVWriter) Write(filePath string, options WriteOptions) error {
	slog.Info("Writing CSV file",
		slog.String("path", filePath),
		slog.Int("columns", len(options.Fields)),
		slog.Int("rows", len(options.Records)))

	// Ensure directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	writer.Comma = Delimiter

	if err := writer.Write(options.Fields); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range options.Records {
		if err := writer.Write(buildRow(rec, options.Fields)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return file.Close()
}

// buildRow projects a record onto the field selection
func buildRow(rec *header.Record, fields []string) []string {
	row := make([]string, len(fields))
	for i, field := range fields {
		row[i] = sanitizeField(rec.Display(field))
	}
	return row
}
