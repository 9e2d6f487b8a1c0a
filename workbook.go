package gridedit

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// Workbook layout understood by LoadWorkbook and ApplyChanges:
//
//	row 1: display labels
//	row 2: type hints (e.g. "money", "lookup", "datetime")
//	row 3+: one record per row
//
// Column names are derived from labels. The id column (first column unless
// WithIDColumn says otherwise) is the primary field; columns holding a
// formula in any record are computed.

type workbookOptions struct {
	sheet    string
	idColumn string
}

// WorkbookOption configures workbook loading and saving.
type WorkbookOption func(*workbookOptions)

// WithSheet selects the sheet (default: first sheet).
func WithSheet(name string) WorkbookOption {
	return func(o *workbookOptions) { o.sheet = name }
}

// WithIDColumn selects the id column by name or label (default: first column).
func WithIDColumn(name string) WorkbookOption {
	return func(o *workbookOptions) { o.idColumn = name }
}

func newWorkbookOptions(opts []WorkbookOption) *workbookOptions {
	o := &workbookOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LoadWorkbook reads a dataset from an xlsx file.
func LoadWorkbook(path string, opts ...WorkbookOption) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()
	return ReadDataset(f, opts...)
}

// ReadWorkbook reads a dataset from xlsx content.
func ReadWorkbook(r io.Reader, opts ...WorkbookOption) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return ReadDataset(f, opts...)
}

// ReadDataset reads a dataset from an open workbook.
func ReadDataset(f *excelize.File, opts ...WorkbookOption) (*Dataset, error) {
	o := newWorkbookOptions(opts)
	sheet, err := resolveSheet(f, o.sheet)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	labels := rows[0]
	var hints []string
	if len(rows) > 1 {
		hints = rows[1]
	}
	cols := make([]Column, len(labels))
	for j, label := range labels {
		cols[j] = Column{Name: ColumnKey(label), Label: strings.TrimSpace(label)}
		if j < len(hints) {
			cols[j].TypeHint = strings.TrimSpace(hints[j])
			cols[j].Type = Classify(cols[j].TypeHint)
		}
	}
	idCol := resolveIDColumn(cols, o.idColumn)
	if idCol < 0 {
		return nil, fmt.Errorf("id column %q not found in sheet %q", o.idColumn, sheet)
	}
	cols[idCol].Identifier = true

	conv := NewConverter(nil)
	ds := &Dataset{Columns: cols}
	for i := 2; i < len(rows); i++ {
		cells := rows[i]
		if isBlankRow(cells) {
			continue
		}
		row := Row{Values: make(map[string]Value, len(cols)), Raw: make(map[string]any, len(cols))}
		for j := range cols {
			raw := ""
			if j < len(cells) {
				raw = cells[j]
			}
			cellName, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if formula, err := f.GetCellFormula(sheet, cellName); err == nil && formula != "" {
				ds.Columns[j].Computed = true
			}
			row.Raw[cols[j].Name] = raw
			row.Values[cols[j].Name] = conv.Convert(raw, cols[j].Type, cols[j].Name)
		}
		if idCol < len(cells) {
			row.ID = strings.TrimSpace(cells[idCol])
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// ApplyChanges writes pending changes into the sheet, locating rows by the id
// column and columns by their header. It returns the number of cells written.
func ApplyChanges(f *excelize.File, changes map[string]map[string]Value, opts ...WorkbookOption) (int, error) {
	o := newWorkbookOptions(opts)
	sheet, err := resolveSheet(f, o.sheet)
	if err != nil {
		return 0, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("sheet %q has no header row", sheet)
	}
	cols := make([]Column, len(rows[0]))
	colIdx := make(map[string]int, len(rows[0]))
	for j, label := range rows[0] {
		cols[j] = Column{Name: ColumnKey(label), Label: strings.TrimSpace(label)}
		colIdx[cols[j].Name] = j
	}
	idCol := resolveIDColumn(cols, o.idColumn)
	if idCol < 0 {
		return 0, fmt.Errorf("id column %q not found in sheet %q", o.idColumn, sheet)
	}

	written := 0
	for i := 2; i < len(rows); i++ {
		if idCol >= len(rows[i]) {
			continue
		}
		rowChanges, ok := changes[strings.TrimSpace(rows[i][idCol])]
		if !ok {
			continue
		}
		for name, v := range rowChanges {
			j, ok := colIdx[name]
			if !ok {
				return written, fmt.Errorf("column %q not found in sheet %q", name, sheet)
			}
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return written, err
			}
			if err := f.SetCellValue(sheet, cellName, v.Any()); err != nil {
				return written, fmt.Errorf("write %s!%s: %w", sheet, cellName, err)
			}
			written++
		}
	}
	return written, nil
}

// SaveChanges copies the workbook at src to dst with the changes applied.
func SaveChanges(src, dst string, changes map[string]map[string]Value, opts ...WorkbookOption) (int, error) {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return 0, fmt.Errorf("open workbook %q: %w", src, err)
	}
	defer f.Close()
	n, err := ApplyChanges(f, changes, opts...)
	if err != nil {
		return n, err
	}
	if err := f.SaveAs(dst); err != nil {
		return n, fmt.Errorf("save workbook %q: %w", dst, err)
	}
	return n, nil
}

// ColumnKey derives a canonical column name from a display label:
// "Annual Revenue" → "annual_revenue".
func ColumnKey(label string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func resolveSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found", name)
}

func resolveIDColumn(cols []Column, want string) int {
	if want == "" {
		if len(cols) == 0 {
			return -1
		}
		return 0
	}
	for j, c := range cols {
		if strings.EqualFold(c.Name, want) || strings.EqualFold(c.Label, want) {
			return j
		}
	}
	return -1
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
