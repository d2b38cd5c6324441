package entity

import (
	"strconv"
	"strings"
	"time"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

// Value kinds.
const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindTime
	KindStringList
)

// Value is a single property value: a string, number, boolean, timestamp,
// list of strings, or null. The zero Value is null.
type Value struct {
	Kind ValueKind

	str  string
	num  float64
	b    bool
	t    time.Time
	list []string
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// String returns a string value.
func String(s string) Value {
	return Value{Kind: KindString, str: s}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{Kind: KindNumber, num: n}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, b: b}
}

// Time returns a timestamp value.
func Time(t time.Time) Value {
	return Value{Kind: KindTime, t: t}
}

// StringList returns a list-of-strings value.
func StringList(l []string) Value {
	return Value{Kind: KindStringList, list: l}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// StringForm renders the value as a string for STR/STR_REGEX matching.
func (v Value) StringForm() string {
	switch v.Kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	case KindStringList:
		return strings.Join(v.list, ", ")
	case KindNull:
		return ""
	}

	return ""
}

// TimeValue returns the timestamp and true when the value is a timestamp.
func (v Value) TimeValue() (time.Time, bool) {
	if v.Kind != KindTime {
		return time.Time{}, false
	}

	return v.t, true
}

// ListValue returns the string list and true when the value is a list.
func (v Value) ListValue() ([]string, bool) {
	if v.Kind != KindStringList {
		return nil, false
	}

	return v.list, true
}
