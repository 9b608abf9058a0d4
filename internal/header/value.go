package header

import (
	"strconv"
	"strings"
)

// Kind identifies the type held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindStrings
	KindInt
	KindFloat
)

// Value is a tagged attribute value. DICOM attributes have no fixed Go type:
// numeric attributes may arrive as binary integers, floats, or decimal
// strings depending on the value representation, and some attributes are
// multi-valued.
type Value struct {
	kind Kind
	str  string
	strs []string
	i    int64
	f    float64
}

// StringValue creates a single-valued string Value
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// StringsValue creates a multi-valued string Value
func StringsValue(ss []string) Value {
	return Value{kind: KindStrings, strs: ss}
}

// IntValue creates an integer Value
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// FloatValue creates a floating-point Value
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Kind returns the value's type tag
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the display form of the value. Multi-valued attributes are
// joined with the DICOM value separator.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindStrings:
		return strings.Join(v.strs, `\`)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	}
	return ""
}

// Float returns the value as a float64. String values holding a decimal
// string (the DS value representation) parse as floats too.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		return f, err == nil
	case KindStrings:
		if len(v.strs) == 1 {
			f, err := strconv.ParseFloat(strings.TrimSpace(v.strs[0]), 64)
			return f, err == nil
		}
	}
	return 0, false
}

// Contains reports whether any component of the value equals token.
// Single-valued strings are treated as a one-element list.
func (v Value) Contains(token string) bool {
	switch v.kind {
	case KindString:
		return v.str == token
	case KindStrings:
		for _, s := range v.strs {
			if s == token {
				return true
			}
		}
	}
	return false
}
