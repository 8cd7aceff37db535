package fetcher

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	err := f.Save(path)
	require.NoError(t, err)
	return path
}

func TestReadXLSXRecords(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{" Name ", "Phone", "City"},
			{"Acme Appraisals", "555-010-2000", "Springfield"},
			{"", "", ""},
			{"Bravo Antiques", "555-010-3000"},
		},
	})

	recs, err := ReadXLSXRecords(context.Background(), path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, map[string]string{"name": "Acme Appraisals", "phone": "555-010-2000", "city": "Springfield"}, recs[0])
	assert.Equal(t, "", recs[1]["city"])
}

func TestReadXLSXRecords_SheetName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Candidates": {{"name"}, {"Acme"}},
	})

	recs, err := ReadXLSXRecords(context.Background(), path, XLSXOptions{SheetName: "Candidates"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Acme", recs[0]["name"])

	_, err = ReadXLSXRecords(context.Background(), path, XLSXOptions{SheetName: "Missing"})
	assert.Error(t, err)

	_, err = ReadXLSXRecords(context.Background(), path, XLSXOptions{SheetIndex: 3})
	assert.Error(t, err)
}

func TestReadXLSXRecords_MissingFile(t *testing.T) {
	_, err := ReadXLSXRecords(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	assert.Error(t, err)
}
