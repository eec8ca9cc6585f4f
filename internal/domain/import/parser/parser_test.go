package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := []byte("Name,Phone,Plate\nJohn Doe,0712345678,KAA123A\nJane Roe,0700111222,KBB456B\n")

	sheet, err := Parse("clients.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Phone", "Plate"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, []string{"John Doe", "0712345678", "KAA123A"}, sheet.Rows[0])
}

func TestParseCSVDropsEmptyRows(t *testing.T) {
	data := []byte("Name,Phone\nJohn,0712345678\n,,\n  , \nJane,0700111222\n")

	sheet, err := Parse("clients.csv", data)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Jane", sheet.Rows[1][0])
}

func TestParseCSVRaggedRows(t *testing.T) {
	data := []byte("Name,Phone,Plate,Notes\nJohn,0712345678\nJane,0700111222,KBB456B,vip,extra\n")

	sheet, err := Parse("clients.csv", data)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Len(t, sheet.Rows[0], 2)
	assert.Len(t, sheet.Rows[1], 5)
}

func TestParseHeaderOnly(t *testing.T) {
	_, err := Parse("clients.csv", []byte("Name,Phone,Plate\n"))
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestParseEmptyFile(t *testing.T) {
	_, err := Parse("clients.csv", []byte(""))
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestParseExcel(t *testing.T) {
	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheetName, "A1", &[]any{"Name", "Phone", "Installation Date"}))
	require.NoError(t, f.SetSheetRow(sheetName, "A2", &[]any{"John Doe", "0712345678", 45000}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheet, err := Parse("smep_clients.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Phone", "Installation Date"}, sheet.Headers)
	require.Len(t, sheet.Rows, 1)
	// Raw cell values keep the date serial for the coercer.
	assert.Equal(t, "45000", sheet.Rows[0][2])
}

func TestParseCorruptExcel(t *testing.T) {
	_, err := Parse("broken.xlsx", []byte("not a zip archive"))
	assert.Error(t, err)
}
