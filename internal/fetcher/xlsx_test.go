package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)

	for _, row := range rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "Sheet1", [][]string{
		{" Deal ID ", "Deal Owner", "MRR"},
		{"D-1", "Ann", "$100"},
		{"D-2", "Raj", ""},
	})

	table, err := ReadXLSX(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Deal ID", "Deal Owner", "MRR"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"D-1", "Ann", "$100"}, table.Rows[0])
}

func TestReadXLSXSheetByName(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "Pipeline", [][]string{
		{"deal id"},
		{"D-9"},
	})

	table, err := ReadXLSX(path, Options{SheetName: "Pipeline"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"D-9"}}, table.Rows)

	_, err = ReadXLSX(path, Options{SheetName: "Missing"})
	assert.Error(t, err)
}

func TestReadXLSXSheetIndexOutOfRange(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, "Sheet1", [][]string{{"a"}})
	_, err := ReadXLSX(path, Options{SheetIndex: 3})
	require.Error(t, err)
}

func TestReadXLSXMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), Options{})
	require.Error(t, err)
}
