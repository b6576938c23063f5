package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

func testRecords(t *testing.T) []domain.WellRecord {
	t.Helper()
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	first, ok := domain.NewWellRecord(start, start.Add(20*time.Minute), nil)
	require.True(t, ok)
	pattern, east, north := "P-1", 1234.5, 6789.25
	first.DrillPattern, first.Easting, first.Northing = &pattern, &east, &north

	second, ok := domain.NewWellRecord(start.Add(time.Hour), start.Add(2*time.Hour), nil)
	require.True(t, ok)

	return []domain.WellRecord{first, second}
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "basic.csv",
			options: WriteOptions{
				Headers: []string{"pozo", "este"},
				Records: [][]string{{"W-1", "100"}, {"W-2", "200"}},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Equal(t, []string{"pozo,este", "W-1,100", "W-2,200"}, lines)
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "nested/bom.csv",
			options: WriteOptions{
				Headers:   []string{"pozo"},
				Records:   [][]string{{"W-1"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				assert.Equal(t, "pozo\nW-1\n", string(content[len(utf8BOM):]))
			},
		},
		{
			name:     "empty records",
			filePath: "empty.csv",
			options:  WriteOptions{Headers: []string{"a", "b"}},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "a,b\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writer := NewCSVWriter(dir, nil)

			path, err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.filePath), path)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	writer := NewCSVWriter(t.TempDir(), nil)

	path, err := writer.WriteCSV("log.csv", WriteOptions{Headers: []string{"a"}, Records: [][]string{{"1"}}, BOMPrefix: true})
	require.NoError(t, err)
	_, err = writer.WriteCSV("log.csv", WriteOptions{Headers: []string{"a"}, Records: [][]string{{"2"}}, Append: true, BOMPrefix: true})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(utf8BOM)+"a\n1\n2\n", string(content))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	target := filepath.Join(t.TempDir(), "abs.csv")
	writer := NewCSVWriter("ignored", nil)

	path, err := writer.WriteCSV(target, WriteOptions{Records: [][]string{{"x"}}})
	require.NoError(t, err)
	assert.Equal(t, target, path)
}

func TestCSVWriter_WriteRecords(t *testing.T) {
	writer := NewCSVWriter(t.TempDir(), nil)

	path, err := writer.WriteRecords("records.csv", testRecords(t))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, utf8BOM))

	lines := strings.Split(strings.TrimSpace(string(content[len(utf8BOM):])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(RecordHeaders, ","), lines[0])
	assert.Equal(t, "2024-01-01 08:00:00,2024-01-01 08:20:00,20.00,medium rock,37.50,P-1,,,,,1234.5,6789.25", lines[1])
	assert.Equal(t, "2024-01-01 09:00:00,2024-01-01 10:00:00,60.00,very hard rock,100.00,,,,,,,", lines[2])
}

func TestEncodeRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeRecordsCSV(&buf, nil, false))
	assert.Equal(t, strings.Join(RecordHeaders, ",")+"\n", buf.String())

	buf.Reset()
	require.NoError(t, EncodeRecordsCSV(&buf, testRecords(t), true))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestRecordRow_MatchesHeaders(t *testing.T) {
	for _, rec := range testRecords(t) {
		assert.Len(t, RecordRow(rec), len(RecordHeaders))
	}
}
