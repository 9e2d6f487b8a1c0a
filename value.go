package gridedit

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindBool
	KindDate
	KindRaw // unconverted input passed through for unclassified columns
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindNumber:
		return "Number"
	case KindText:
		return "Text"
	case KindBool:
		return "Bool"
	case KindDate:
		return "Date"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Value is a typed cell value. The zero Value is Null.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
	t    time.Time
	raw  any
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Date returns a date Value normalized to UTC.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t.UTC()} }

// Raw wraps an unconverted value. A nil raw value yields Null.
func Raw(v any) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindRaw, raw: v}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the number held by a Number value.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the string held by a Text value.
func (v Value) Str() (string, bool) { return v.text, v.kind == KindText }

// Truth returns the boolean held by a Bool value.
func (v Value) Truth() (bool, bool) { return v.b, v.kind == KindBool }

// Time returns the instant held by a Date value.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindDate }

// Any returns the plain Go representation: nil, float64, string, bool,
// time.Time (UTC) or the raw value.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	case KindBool:
		return v.b
	case KindDate:
		return v.t
	case KindRaw:
		return v.raw
	default:
		return nil
	}
}

// String renders the value for display and clipboard export.
// Dates use RFC 3339 in UTC; null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(time.RFC3339)
	case KindRaw:
		return fmt.Sprint(v.raw)
	default:
		return ""
	}
}

// GoString makes Values readable in test failure output.
func (v Value) GoString() string {
	if v.kind == KindNull {
		return "Null()"
	}
	return fmt.Sprintf("%s(%q)", v.kind, v.String())
}
