package employee

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSVNativeHeaders(t *testing.T) {
	var buf bytes.Buffer
	records := []Employee{{ID: 7, PayrollNumber: "P7", Surname: "Doe, Jane", DateOfBirth: day(1990, time.March, 4)}}
	require.NoError(t, WriteCSV(&buf, records, NativeHeaders))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, nativeHeaders, rows[0])
	assert.Equal(t, []string{"7", "P7", "", "Doe, Jane", "1990-03-04", "", "", "", "", "", "", ""}, rows[1])
}

func TestWriteCSVEmptyWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, ExternalHeaders))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ImportHeaders(), rows[0])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	records := []Employee{
		{ID: 1, PayrollNumber: "P1", Surname: "Hopper", StartDate: day(1944, time.July, 2)},
		{ID: 2, PayrollNumber: "P2", Surname: "Turing"},
	}
	require.NoError(t, WriteXLSX(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{ExportSheet}, f.GetSheetList())
	rows, err := f.GetRows(ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, nativeHeaders, rows[0])
	assert.Equal(t, "P1", rows[1][1])
	assert.Equal(t, "Hopper", rows[1][3])
	assert.Equal(t, "1944-07-02", rows[1][11])
	assert.Equal(t, "Turing", rows[2][3])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	records := []Employee{{ID: 1, PayrollNumber: "P1", Forenames: "Zoë", Surname: "Brontë", EmailHome: "a-very-long-address-that-will-not-fit-in-the-column@example.com"}}
	require.NoError(t, WritePDF(&buf, records, time.Date(2025, 1, 31, 14, 25, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportFileName(t *testing.T) {
	at := time.Date(2025, 1, 31, 14, 25, 0, 0, time.UTC)
	assert.Equal(t, "employees_20250131142500.csv", ExportFileName(at, "csv"))
	assert.Equal(t, "employees_20250131142500.xlsx", ExportFileName(at, "xlsx"))
}
