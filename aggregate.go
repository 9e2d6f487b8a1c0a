package gridedit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AggregationMode selects the summary computed per column.
type AggregationMode int

const (
	AggregateNone AggregationMode = iota
	AggregateSum
	AggregateAverage
	AggregateCount
)

// String returns the label used as prefix of formatted results.
func (m AggregationMode) String() string {
	switch m {
	case AggregateSum:
		return "Sum"
	case AggregateAverage:
		return "Avg"
	case AggregateCount:
		return "Count"
	default:
		return "None"
	}
}

// ParseAggregationMode parses "none", "sum", "avg"/"average" or "count".
func ParseAggregationMode(s string) (AggregationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AggregateNone, nil
	case "sum":
		return AggregateSum, nil
	case "avg", "average":
		return AggregateAverage, nil
	case "count":
		return AggregateCount, nil
	}
	return AggregateNone, fmt.Errorf("invalid aggregation mode %q (must be none, sum, avg or count)", s)
}

// Aggregate is the summary of one column.
type Aggregate struct {
	Value     float64
	Formatted string
	Mode      AggregationMode
}

// AggregationResult maps column names to their summary.
type AggregationResult map[string]Aggregate

// Aggregator computes column summaries. Results are always derived from the
// full row set passed in; nothing is cached between calls.
type Aggregator struct {
	printer *message.Printer
}

// NewAggregator creates an Aggregator formatting numbers for the given locale.
func NewAggregator(tag language.Tag) *Aggregator {
	return &Aggregator{printer: message.NewPrinter(tag)}
}

// Compute summarizes every column over rows. Columns without a single
// numeric value are omitted. Count reports the number of rows, numeric or not.
func (a *Aggregator) Compute(rows []*Row, columns []Column, mode AggregationMode) AggregationResult {
	result := make(AggregationResult)
	if mode == AggregateNone {
		return result
	}
	for _, col := range columns {
		var sum float64
		n := 0
		for _, r := range rows {
			if f, ok := numericValue(r.Get(col.Name)); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			continue
		}
		var v float64
		switch mode {
		case AggregateSum:
			v = sum
		case AggregateAverage:
			v = sum / float64(n)
		case AggregateCount:
			v = float64(len(rows))
		}
		result[col.Name] = Aggregate{Value: v, Formatted: a.format(v, mode), Mode: mode}
	}
	return result
}

func (a *Aggregator) format(v float64, mode AggregationMode) string {
	if mode == AggregateCount {
		return mode.String() + ": " + strconv.FormatInt(int64(v), 10)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return a.printer.Sprintf("%s: %d", mode.String(), int64(v))
	}
	return a.printer.Sprintf("%s: %.2f", mode.String(), v)
}

// numericValue extracts a finite number from a cell value. Text that parses
// as a number counts; booleans, dates and null do not.
func numericValue(v Value) (float64, bool) {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.Float()
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case KindText:
		s, _ := v.Str()
		return parseFinite(s)
	case KindRaw:
		if f, ok := toFloat(v.Any()); ok {
			return f, true
		}
		return parseFinite(v.String())
	}
	return 0, false
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
