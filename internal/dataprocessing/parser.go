package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format identifies the encoding of a tabular source
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the reader for a file name by extension.
// Names without a known extension are treated as CSV.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt", ".tsv", "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Table is a tokenized source: one map per data row keyed by the header cells,
// plus the row-level problems the tokenizer ran into. Every data row has an
// entry in Rows; a record the tokenizer could not read is an all-empty row.
type Table struct {
	Columns []string
	Rows    []map[string]string
	Errors  []TableError
}

// TableError is a recoverable tokenizer problem on one data row
type TableError struct {
	Row     int // 1-based index into Rows
	Line    int // 1-based line in the source, header included
	Message string
}

// candidate delimiters, in the order ties are broken
var csvDelimiters = []rune{',', ';', '\t', '|'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile opens path and tokenizes it according to its extension
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Source: filepath.Base(path), Err: err}
	}
	defer f.Close()

	return ReadTable(f, filepath.Base(path))
}

// ReadTable tokenizes r, choosing CSV or XLSX from name
func ReadTable(r io.Reader, name string) (*Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, &ReadError{Source: name, Err: err}
	}

	var table *Table
	switch format {
	case FormatXLSX:
		table, err = ReadXLSX(r)
	default:
		table, err = ReadCSV(r)
	}
	if err != nil {
		var readErr *ReadError
		if errors.As(err, &readErr) && readErr.Source == "" {
			readErr.Source = name
		}
		return nil, err
	}
	return table, nil
}

// ReadCSV tokenizes delimited text whose first line holds the column names.
// The delimiter is sniffed from the header line and a UTF-8 BOM is ignored.
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	firstLine, err := br.Peek(peekSize(br))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, &ReadError{Err: err}
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(firstLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("failed to read header: %w", err)}
	}

	table := &Table{Columns: header}
	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, &ReadError{Err: err}
			}
			table.Errors = append(table.Errors, TableError{
				Row:     rowNum,
				Line:    parseErr.StartLine,
				Message: parseErr.Err.Error(),
			})
			table.Rows = append(table.Rows, zipRow(header, nil))
			continue
		}

		if len(record) != len(header) {
			line, _ := reader.FieldPos(0)
			table.Errors = append(table.Errors, TableError{
				Row:     rowNum,
				Line:    line,
				Message: fmt.Sprintf("expected %d fields but found %d", len(header), len(record)),
			})
		}
		table.Rows = append(table.Rows, zipRow(header, record))
	}

	return table, nil
}

// ReadXLSX tokenizes the first worksheet of a workbook.
// Trailing empty cells trimmed by the workbook are restored as "".
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ReadError{Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)}
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	header := rows[0]
	table := &Table{Columns: header}
	for i, record := range rows[1:] {
		if len(record) > len(header) {
			table.Errors = append(table.Errors, TableError{
				Row:     i + 1,
				Line:    i + 2,
				Message: fmt.Sprintf("expected %d fields but found %d", len(header), len(record)),
			})
		}
		table.Rows = append(table.Rows, zipRow(header, record))
	}

	return table, nil
}

// zipRow pairs header cells with values. Missing values become "" so every
// row carries every header key; values beyond the header are dropped.
func zipRow(header, record []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(record) {
			row[name] = record[i]
			continue
		}
		row[name] = ""
	}
	return row
}

// sniffDelimiter returns the candidate that appears most often on the first line
func sniffDelimiter(sample []byte) rune {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	line := string(sample)

	best, bestCount := csvDelimiters[0], 0
	for _, d := range csvDelimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// peekSize bounds the header sniff by what is buffered or 4 KiB
func peekSize(br *bufio.Reader) int {
	const maxSniff = 4096
	if size := br.Size(); size < maxSniff {
		return size
	}
	return maxSniff
}
