// Package exporter serializes the deduplicated examination set as a table.
//
// This package contains two writers:
//
// CSVWriter: semicolon-delimited text with minimal quoting and an optional
// UTF-8 BOM for Excel compatibility. Line breaks inside values are collapsed
// to spaces; delimiters and quotes are handled by standard CSV quoting, so
// the file reads back with the same column count it was written with.
//
// ExcelWriter: the same table as an xlsx workbook with a single
// "Examinations" sheet.
//
// Both writers take an ordered field selection; the selection defines the
// header row and the column order, and attributes absent from a record
// become empty cells.
package exporter
