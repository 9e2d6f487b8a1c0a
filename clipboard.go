package gridedit

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Clipboard holds pasted content: plain tab-separated text and, optionally,
// an HTML table as spreadsheet applications put on the clipboard.
type Clipboard struct {
	Text string
	HTML string
}

// Matrix returns the pasted cells. The HTML table is preferred when it holds
// at least one row; otherwise the plain text is split.
func (c Clipboard) Matrix() [][]string {
	if strings.TrimSpace(c.HTML) != "" {
		if m, err := ParseHTMLTable(c.HTML); err == nil && len(m) > 0 {
			return m
		}
	}
	return ParseMatrix(c.Text)
}

// ParseMatrix splits text into rows on any line ending (\r\n, \r or \n) and
// each row into cells on tabs. Trailing blank lines are ignored; text made
// only of line breaks is a single empty cell.
func ParseMatrix(text string) [][]string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimRight(text, "\n")
	lines := strings.Split(text, "\n")
	matrix := make([][]string, 0, len(lines))
	for _, line := range lines {
		matrix = append(matrix, strings.Split(line, "\t"))
	}
	return matrix
}

// ParseHTMLTable walks the rows and cells of the first table in src.
func ParseHTMLTable(src string) ([][]string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse clipboard html: %w", err)
	}
	table := findElement(doc, atom.Table)
	if table == nil {
		return nil, nil
	}
	var matrix [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				// nested tables belong to their cell
			case atom.Tr:
				matrix = append(matrix, rowCells(c))
			default:
				walk(c)
			}
		}
	}
	walk(table)
	return matrix, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			var b strings.Builder
			collectText(c, &b)
			cells = append(cells, strings.TrimSpace(b.String()))
		}
	}
	return cells
}

func collectText(n *html.Node, b *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		b.WriteString(n.Data)
	case n.Type == html.ElementNode && n.DataAtom == atom.Br:
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// ColumnMapping assigns a target column name to each pasted column.
// An empty name means the pasted column is dropped.
type ColumnMapping struct {
	HasHeader bool
	Fields    []string
}

// MapColumns decides how pasted columns map onto dataset columns. If every
// cell of the first row names a column (display or canonical name, ignoring
// case), that row is a header and columns map by name. Otherwise pasted
// columns map positionally from anchorCol.
func MapColumns(matrix [][]string, columns []Column, anchorCol int) ColumnMapping {
	if len(matrix) == 0 {
		return ColumnMapping{}
	}
	if fields, ok := matchHeader(matrix[0], columns); ok {
		return ColumnMapping{HasHeader: true, Fields: fields}
	}
	width := 0
	for _, row := range matrix {
		width = max(width, len(row))
	}
	fields := make([]string, width)
	for j := range fields {
		if idx := anchorCol + j; idx >= 0 && idx < len(columns) {
			fields[j] = columns[idx].Name
		}
	}
	return ColumnMapping{Fields: fields}
}

func matchHeader(first []string, columns []Column) ([]string, bool) {
	if len(first) == 0 {
		return nil, false
	}
	fields := make([]string, len(first))
	for j, cell := range first {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return nil, false
		}
		found := false
		for _, col := range columns {
			if strings.EqualFold(cell, col.Label) || strings.EqualFold(cell, col.Name) {
				fields[j] = col.Name
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return fields, true
}

// WriteInstruction is one cell write produced by a bulk operation. Raw still
// has to go through type conversion and change recording.
type WriteInstruction struct {
	Row    int // index into the visible row order
	RowID  string
	Column string
	Raw    any
}

// PasteInstructions turns a pasted matrix into cell writes starting at
// anchorRow. rowIDs is the visible row order; rows beyond its end are dropped.
func PasteInstructions(matrix [][]string, columns []Column, rowIDs []string, anchorRow, anchorCol int) []WriteInstruction {
	mapping := MapColumns(matrix, columns, anchorCol)
	data := matrix
	if mapping.HasHeader {
		data = matrix[1:]
	}
	var out []WriteInstruction
	for i, cells := range data {
		target := anchorRow + i
		if target < 0 || target >= len(rowIDs) {
			break
		}
		for j, cell := range cells {
			if j >= len(mapping.Fields) || mapping.Fields[j] == "" {
				continue
			}
			out = append(out, WriteInstruction{
				Row:    target,
				RowID:  rowIDs[target],
				Column: mapping.Fields[j],
				Raw:    cell,
			})
		}
	}
	return out
}

// ExportMatrix joins cells with tabs and rows with LineSeparator. Fields
// containing a tab or line break are quoted, doubling embedded quotes.
func ExportMatrix(matrix [][]string) string {
	var b strings.Builder
	for i, row := range matrix {
		if i > 0 {
			b.WriteString(LineSeparator)
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(quoteField(cell))
		}
	}
	return b.String()
}

func quoteField(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportRows renders rows for copying, optionally preceded by a header row of
// display names.
func ExportRows(columns []Column, rows []*Row, header bool) string {
	matrix := make([][]string, 0, len(rows)+1)
	if header {
		h := make([]string, len(columns))
		for j, col := range columns {
			h[j] = col.DisplayName()
		}
		matrix = append(matrix, h)
	}
	for _, r := range rows {
		line := make([]string, len(columns))
		for j, col := range columns {
			line[j] = r.Get(col.Name).String()
		}
		matrix = append(matrix, line)
	}
	return ExportMatrix(matrix)
}
