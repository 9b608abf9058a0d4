package exporter

import "strings"

// fieldSanitizer collapses line breaks so every examination stays on one
// visual line. Delimiters and quotes are left to the csv encoder's quoting.
var fieldSanitizer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// sanitizeField prepares a value for a single-line table cell
func sanitizeField(s string) string {
	return fieldSanitizer.Replace(s)
}
