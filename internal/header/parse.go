package header

import (
	"fmt"
	"path/filepath"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ParseFile reads the DICOM header of the file at path into a Record.
// Pixel data is skipped: only metadata is needed, and CBCT exports sometimes
// lack trailing image data entirely. Files that are not valid DICOM return
// an error; callers are expected to treat that as "skip this file".
func ParseFile(path string) (*Record, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	rec := NewRecord(path)
	for _, el := range ds.Elements {
		info, err := tag.Find(el.Tag)
		if err != nil || info.Name == "" {
			// Private or unknown tag, nothing to export it under
			continue
		}
		if v, ok := convertValue(el.Value); ok {
			rec.Set(info.Name, v)
		}
	}
	return rec, nil
}

// convertValue maps a parsed element value onto the tagged Value model.
// Bulk data and sequences are not exportable as table cells and are dropped.
func convertValue(v dicom.Value) (Value, bool) {
	switch v.ValueType() {
	case dicom.Strings:
		ss, ok := v.GetValue().([]string)
		if !ok || len(ss) == 0 {
			return Value{}, false
		}
		if len(ss) == 1 {
			return StringValue(ss[0]), true
		}
		return StringsValue(ss), true
	case dicom.Ints:
		is, ok := v.GetValue().([]int)
		if !ok || len(is) == 0 {
			return Value{}, false
		}
		if len(is) == 1 {
			return IntValue(int64(is[0])), true
		}
		formatted := make([]string, len(is))
		for i, n := range is {
			formatted[i] = fmt.Sprintf("%d", n)
		}
		return StringsValue(formatted), true
	case dicom.Floats:
		fs, ok := v.GetValue().([]float64)
		if !ok || len(fs) == 0 {
			return Value{}, false
		}
		if len(fs) == 1 {
			return FloatValue(fs[0]), true
		}
		formatted := make([]string, len(fs))
		for i, f := range fs {
			formatted[i] = fmt.Sprintf("%g", f)
		}
		return StringsValue(formatted), true
	default:
		return Value{}, false
	}
}
