package gridedit

import (
	"reflect"
	"strings"
	"time"
)

// Equal decides whether two values are the same for change tracking.
// Numbers compare exactly, text compares after trimming surrounding
// whitespace, dates compare by instant. Raw strings, native numbers and
// times compare as Text, Number and Date, so an unclassified column edited
// back to its loaded value is unchanged. Anything else needs the same kind
// and an identical value.
func Equal(a, b Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	a, b = typedForm(a), typedForm(b)
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		return a.num == b.num
	case KindText:
		return strings.TrimSpace(a.text) == strings.TrimSpace(b.text)
	case KindDate:
		return a.t.Equal(b.t)
	case KindBool:
		return a.b == b.b
	default:
		return reflect.DeepEqual(a.raw, b.raw)
	}
}

// typedForm lifts a Raw payload into the typed variant it represents.
func typedForm(v Value) Value {
	if v.kind != KindRaw {
		return v
	}
	switch r := v.raw.(type) {
	case string:
		return Text(r)
	case bool:
		return Bool(r)
	case time.Time:
		return Date(r)
	}
	if f, ok := toFloat(v.raw); ok {
		return Number(f)
	}
	return v
}
