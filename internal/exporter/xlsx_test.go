package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestEncodeRecordsXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeRecordsXLSX(&buf, testRecords(t)))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{RecordsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(RecordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, RecordHeaders, rows[0])
	assert.Equal(t, "2024-01-01 08:00:00", rows[1][0])
	assert.Equal(t, "medium rock", rows[1][3])
	assert.Equal(t, "P-1", rows[1][5])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, summaryHeaders, summary[0])
	assert.Equal(t, "soft rock", summary[1][0])
	assert.Equal(t, "0", summary[1][1])
	assert.Equal(t, "medium rock", summary[2][0])
	assert.Equal(t, "1", summary[2][1])
}

func TestXLSXWriter_WriteRecords(t *testing.T) {
	writer := NewXLSXWriter(t.TempDir(), nil)

	path, err := writer.WriteRecords("out/records.xlsx", nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(RecordsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
