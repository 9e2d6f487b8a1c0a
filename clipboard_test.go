package gridedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatrix_LineEndings(t *testing.T) {
	want := [][]string{{"a", "b"}, {"c", "d"}}
	for name, text := range map[string]string{
		"lf":            "a\tb\nc\td",
		"crlf":          "a\tb\r\nc\td",
		"cr":            "a\tb\rc\td",
		"trailing lf":   "a\tb\nc\td\n",
		"trailing crlf": "a\tb\r\nc\td\r\n",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, ParseMatrix(text))
		})
	}

	assert.Nil(t, ParseMatrix(""))
	assert.Equal(t, [][]string{{"x", "", "y"}}, ParseMatrix("x\t\ty"))
	assert.Equal(t, [][]string{{"a"}, {""}, {"b"}}, ParseMatrix("a\n\nb"))
}

func TestParseMatrix_TrailingBlankLines(t *testing.T) {
	assert.Equal(t, [][]string{{"x"}}, ParseMatrix("x\n\n"))
	assert.Equal(t, [][]string{{"x", "y"}}, ParseMatrix("x\ty\r\n\r\n\r\n"))
	assert.Equal(t, [][]string{{""}}, ParseMatrix("\r\n"))

	// a trailing blank line must not clear the cell below the pasted block
	cols := []Column{{Name: "a"}}
	got := PasteInstructions(ParseMatrix("x\n\n"), cols, []string{"r0", "r1"}, 0, 0)
	assert.Equal(t, []WriteInstruction{{Row: 0, RowID: "r0", Column: "a", Raw: "x"}}, got)
}

func TestParseHTMLTable(t *testing.T) {
	src := `<html><body><p>ignored</p>
<table>
  <thead><tr><th>Name</th><th>Revenue</th></tr></thead>
  <tbody>
    <tr><td> Acme </td><td>1,000</td></tr>
    <tr><td>Line<br>Two</td><td><table><tr><td>nested</td></tr></table>5</td></tr>
  </tbody>
</table>
<table><tr><td>second</td></tr></table>
</body></html>`

	m, err := ParseHTMLTable(src)
	require.NoError(t, err)
	require.Len(t, m, 3)
	assert.Equal(t, []string{"Name", "Revenue"}, m[0])
	assert.Equal(t, []string{"Acme", "1,000"}, m[1])
	assert.Equal(t, "Line\nTwo", m[2][0])

	m, err = ParseHTMLTable("<p>no table here</p>")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestClipboard_PrefersHTML(t *testing.T) {
	clip := Clipboard{Text: "plain", HTML: "<table><tr><td>html</td></tr></table>"}
	assert.Equal(t, [][]string{{"html"}}, clip.Matrix())

	clip.HTML = "<b>not a table</b>"
	assert.Equal(t, [][]string{{"plain"}}, clip.Matrix())
}

func TestMapColumns(t *testing.T) {
	cols := []Column{
		{Name: "id", Label: "Account"},
		{Name: "name", Label: "Account Name"},
		{Name: "revenue", Label: "Annual Revenue"},
	}

	t.Run("header by label and name", func(t *testing.T) {
		m := MapColumns([][]string{{"annual revenue", "NAME"}, {"1", "x"}}, cols, 0)
		assert.True(t, m.HasHeader)
		assert.Equal(t, []string{"revenue", "name"}, m.Fields)
	})

	t.Run("positional from anchor", func(t *testing.T) {
		m := MapColumns([][]string{{"Acme", "100", "extra"}, {"Globex"}}, cols, 1)
		assert.False(t, m.HasHeader)
		assert.Equal(t, []string{"name", "revenue", ""}, m.Fields)
	})

	t.Run("partial header is data", func(t *testing.T) {
		m := MapColumns([][]string{{"Account Name", "Acme"}}, cols, 0)
		assert.False(t, m.HasHeader)
		assert.Equal(t, []string{"id", "name"}, m.Fields)
	})

	assert.Equal(t, ColumnMapping{}, MapColumns(nil, cols, 0))
}

func TestPasteInstructions(t *testing.T) {
	cols := []Column{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	ids := []string{"r0", "r1", "r2"}

	got := PasteInstructions([][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}}, cols, ids, 1, 1)
	assert.Equal(t, []WriteInstruction{
		{Row: 1, RowID: "r1", Column: "b", Raw: "1"},
		{Row: 1, RowID: "r1", Column: "c", Raw: "2"},
		{Row: 2, RowID: "r2", Column: "b", Raw: "3"},
		{Row: 2, RowID: "r2", Column: "c", Raw: "4"},
	}, got)

	got = PasteInstructions([][]string{{"C", "A"}, {"x", "y"}}, cols, ids, 0, 2)
	assert.Equal(t, []WriteInstruction{
		{Row: 0, RowID: "r0", Column: "c", Raw: "x"},
		{Row: 0, RowID: "r0", Column: "a", Raw: "y"},
	}, got)
}

func TestExportMatrix(t *testing.T) {
	out := ExportMatrix([][]string{
		{"plain", `has "quotes"`, "tab\there"},
		{"line\nbreak", `"q"` + "\r", ""},
	})
	assert.Equal(t, "plain\thas \"quotes\"\t\"tab\there\""+LineSeparator+"\"line\nbreak\"\t\"\"\"q\"\"\r\"\t", out)
	assert.Equal(t, "a"+LineSeparator+"b", ExportMatrix([][]string{{"a"}, {"b"}}))
}

func TestExportRows(t *testing.T) {
	cols := []Column{{Name: "name", Label: "Name"}, {Name: "qty"}, {Name: "note"}}
	r := NewRow("1", map[string]Value{"name": Text("Acme"), "qty": Number(2.5)})

	assert.Equal(t, "Name\tqty\tnote"+LineSeparator+"Acme\t2.5\t", ExportRows(cols, []*Row{&r}, true))
	assert.Equal(t, "Acme\t2.5\t", ExportRows(cols, []*Row{&r}, false))
}
