package gridedit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Converter turns raw edited input into a typed Value for a column.
// Conversion never fails: unparsable input becomes Null.
type Converter struct {
	log Logger
}

// NewConverter creates a Converter. A nil logger discards diagnostics.
func NewConverter(log Logger) *Converter {
	return &Converter{log: orNop(log)}
}

// IsEditable reports whether values of the semantic type may be written at
// all. Reference and identifier types are never written directly.
func IsEditable(t SemanticType) bool {
	switch t {
	case TypeLookup, TypeUniqueIdentifier:
		return false
	}
	return true
}

// Convert converts raw into the canonical Value for t. column is only used
// for diagnostics.
func (c *Converter) Convert(raw any, t SemanticType, column string) Value {
	if v, ok := raw.(Value); ok {
		raw = v.Any()
	}
	if raw == nil {
		return Null()
	}
	if s, ok := raw.(string); ok && s == "" {
		return Null()
	}

	switch {
	case t.IsNumeric():
		return c.toNumber(raw, t, column)
	case t == TypeText:
		if s, ok := raw.(string); ok {
			return Text(s)
		}
		return Text(fmt.Sprint(raw))
	case t == TypeTwoOptions:
		return Bool(toBool(raw))
	case t == TypeOptionSet:
		return c.toOption(raw, column)
	case t == TypeDateTime:
		return c.toDate(raw, column)
	default:
		return Raw(raw)
	}
}

func (c *Converter) toNumber(raw any, t SemanticType, column string) Value {
	f, ok := toFloat(raw)
	if !ok {
		s, isStr := raw.(string)
		if !isStr {
			s = fmt.Sprint(raw)
		}
		f, ok = parseNumber(s)
	}
	if !ok {
		c.log.Debug("numeric conversion failed", "column", column, "input", raw)
		return Null()
	}
	if t.IsIntegral() {
		f = math.Round(f)
	}
	return Number(f)
}

var numberNoise = strings.NewReplacer(
	",", "", "$", "", "€", "", "£", "", "¥", "", "%", "",
	" ", "", "\u00a0", "", "\u202f", "",
)

// parseNumber strips grouping, currency and percent symbols and parses the
// remainder as a finite float.
func parseNumber(s string) (float64, bool) {
	s = numberNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toFloat converts native Go numbers.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
		return v != ""
	}
	if f, ok := toFloat(raw); ok {
		return f != 0
	}
	return raw != nil
}

func (c *Converter) toOption(raw any, column string) Value {
	if f, ok := toFloat(raw); ok {
		return Number(f)
	}
	s, ok := raw.(string)
	if !ok {
		return Null()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		c.log.Debug("option value is not numeric", "column", column, "input", s)
		return Null()
	}
	return Number(math.Trunc(f))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

func (c *Converter) toDate(raw any, column string) Value {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return Null()
		}
		return Date(v)
	case string:
		if t, ok := parseDate(v); ok {
			return Date(t)
		}
		c.log.Debug("date conversion failed", "column", column, "input", v)
		return Null()
	}
	if f, ok := toFloat(raw); ok {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return Date(t)
		}
	}
	c.log.Debug("date conversion failed", "column", column, "input", raw)
	return Null()
}

// parseDate accepts the common ISO and US layouts, and bare Excel serial
// numbers as workbooks store them.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
