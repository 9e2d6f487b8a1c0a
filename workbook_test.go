package gridedit

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeAccountsWorkbook saves a small accounts sheet and returns its path.
//
//	Account ID | Name   | Revenue | Full Name
//	guid       | string | money   | string
//	a1         | Acme   | 1000    | =B3&" Ltd"
//	a2         | Globex | 2500.5  | =B4&" Ltd"
//	(blank)
//	a3         | Initech| "1,200" | =B6&" Ltd"
func writeAccountsWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	rows := [][]any{
		{"Account ID", "Name", "Revenue", "Full Name"},
		{"guid", "string", "money", "string"},
		{"a1", "Acme", 1000},
		{"a2", "Globex", 2500.5},
		nil,
		{"a3", "Initech", "1,200"},
	}
	for i, r := range rows {
		if r == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	for _, row := range []string{"3", "4", "6"} {
		require.NoError(t, f.SetCellFormula(sheet, "D"+row, `B`+row+`&" Ltd"`))
	}

	path := filepath.Join(t.TempDir(), "accounts.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbook(t *testing.T) {
	ds, err := LoadWorkbook(writeAccountsWorkbook(t))
	require.NoError(t, err)

	require.Len(t, ds.Columns, 4)
	assert.Equal(t, "account_id", ds.Columns[0].Name)
	assert.Equal(t, "Account ID", ds.Columns[0].Label)
	assert.True(t, ds.Columns[0].Identifier)
	assert.Equal(t, TypeUniqueIdentifier, ds.Columns[0].Type)
	assert.Equal(t, TypeCurrency, ds.Columns[2].Type)
	assert.Equal(t, "full_name", ds.Columns[3].Name)
	assert.True(t, ds.Columns[3].Computed)
	assert.False(t, ds.Columns[1].Computed)

	require.Len(t, ds.Rows, 3)
	assert.Equal(t, "a1", ds.Rows[0].ID)
	assert.Equal(t, Text("Acme"), ds.Rows[0].Values["name"])
	assert.Equal(t, Number(1000), ds.Rows[0].Values["revenue"])
	assert.Equal(t, Number(2500.5), ds.Rows[1].Values["revenue"])
	assert.Equal(t, "a3", ds.Rows[2].ID)
	assert.Equal(t, Number(1200), ds.Rows[2].Values["revenue"])
	assert.Equal(t, "1,200", ds.Rows[2].Raw["revenue"])
}

func TestLoadWorkbook_Options(t *testing.T) {
	path := writeAccountsWorkbook(t)

	ds, err := LoadWorkbook(path, WithIDColumn("Name"))
	require.NoError(t, err)
	assert.Equal(t, "Acme", ds.Rows[0].ID)
	assert.False(t, ds.Columns[0].Identifier)
	assert.True(t, ds.Columns[1].Identifier)

	_, err = LoadWorkbook(path, WithIDColumn("Nope"))
	assert.ErrorContains(t, err, "id column")

	_, err = LoadWorkbook(path, WithSheet("Missing"))
	assert.ErrorContains(t, err, `sheet "Missing" not found`)

	_, err = LoadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestReadWorkbook(t *testing.T) {
	f, err := excelize.OpenFile(writeAccountsWorkbook(t))
	require.NoError(t, err)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	ds, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 3)
}

func TestWorkbook_SessionRoundTrip(t *testing.T) {
	src := writeAccountsWorkbook(t)
	ds, err := LoadWorkbook(src)
	require.NoError(t, err)

	s := NewSession()
	require.NoError(t, s.Load(ds))
	_, err = s.Edit(t.Context(), "a2", "name", "Globex 2")
	require.NoError(t, err)
	_, err = s.Edit(t.Context(), "a2", "revenue", "3,000")
	require.NoError(t, err)
	_, err = s.Edit(t.Context(), "a1", "full_name", "x")
	assert.ErrorIs(t, err, ErrNotEditable)

	dst := filepath.Join(t.TempDir(), "out.xlsx")
	n, err := SaveChanges(src, dst, s.Changes())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	saved, err := LoadWorkbook(dst)
	require.NoError(t, err)
	assert.Equal(t, Text("Globex 2"), saved.Rows[1].Values["name"])
	assert.Equal(t, Number(3000), saved.Rows[1].Values["revenue"])
	assert.Equal(t, Text("Acme"), saved.Rows[0].Values["name"])
}

func TestApplyChanges_UnknownColumn(t *testing.T) {
	f, err := excelize.OpenFile(writeAccountsWorkbook(t))
	require.NoError(t, err)
	defer f.Close()

	_, err = ApplyChanges(f, map[string]map[string]Value{"a1": {"missing": Text("x")}})
	assert.ErrorContains(t, err, `column "missing" not found`)

	n, err := ApplyChanges(f, map[string]map[string]Value{"zz": {"name": Text("x")}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestColumnKey(t *testing.T) {
	tests := map[string]string{
		"Annual Revenue":     "annual_revenue",
		"  E-mail (Work) ":   "e_mail_work",
		"ID":                 "id",
		"Parent__Account Id": "parent_account_id",
		"Größe":              "größe",
	}
	for in, want := range tests {
		assert.Equal(t, want, ColumnKey(in), in)
	}
}
