package header

import "strings"

// Attribute keywords referenced outside the export field selection.
const (
	AttrManufacturer      = "Manufacturer"
	AttrSeriesInstanceUID = "SeriesInstanceUID"
	AttrImageType         = "ImageType"
	AttrImageComments     = "ImageComments"
	AttrDoseAreaProduct   = "AcquiredImageAreaDoseProduct"
	AttrImagesInAcq       = "ImagesInAcquisition"
)

// Record is one parsed DICOM header: a mapping from attribute keyword to
// tagged value. Absent attributes are reported explicitly instead of
// panicking on access.
type Record struct {
	path   string
	values map[string]Value
}

// NewRecord creates an empty record for the file at path
func NewRecord(path string) *Record {
	return &Record{
		path:   path,
		values: make(map[string]Value),
	}
}

// Path returns the source file the record was parsed from
func (r *Record) Path() string {
	return r.path
}

// Get looks up an attribute by keyword
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// GetString returns the attribute's display string, if present
func (r *Record) GetString(name string) (string, bool) {
	v, ok := r.values[name]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// GetFloat returns the attribute as a float64, if present and numeric
func (r *Record) GetFloat(name string) (float64, bool) {
	v, ok := r.values[name]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Set stores an attribute value, replacing any existing one
func (r *Record) Set(name string, v Value) {
	r.values[name] = v
}

// SetFloat stores a floating-point attribute
func (r *Record) SetFloat(name string, f float64) {
	r.values[name] = FloatValue(f)
}

// SetInt stores an integer attribute
func (r *Record) SetInt(name string, i int64) {
	r.values[name] = IntValue(i)
}

// Display returns the value for export: the display string for present
// attributes, empty for absent ones.
func (r *Record) Display(name string) string {
	v, ok := r.values[name]
	if !ok {
		return ""
	}
	return v.String()
}

// Manufacturer returns the trimmed manufacturer name, if present
func (r *Record) Manufacturer() (string, bool) {
	s, ok := r.GetString(AttrManufacturer)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// SeriesInstanceUID returns the examination series identifier, if present
// and non-empty.
func (r *Record) SeriesInstanceUID() (string, bool) {
	s, ok := r.GetString(AttrSeriesInstanceUID)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// ImageTypeContains reports whether the multi-valued ImageType attribute
// contains the given token.
func (r *Record) ImageTypeContains(token string) bool {
	v, ok := r.values[AttrImageType]
	if !ok {
		return false
	}
	return v.Contains(token)
}
