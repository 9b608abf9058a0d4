// Package header parses DICOM file headers into a schema-less record model.
//
// Parsing is delegated to github.com/suyashkumar/dicom with pixel data
// skipped. Each parsed file becomes a Record: a map from DICOM keyword
// (e.g. "SeriesInstanceUID") to a tagged Value that is one of string,
// multi-valued string, integer, or float. Attribute absence is an explicit
// second return value everywhere, never a nil dereference.
package header
