package dataprocessing

import (
	"strings"

	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// NormalizeColumnName trims and lower-cases a header cell
func NormalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeRow returns a copy of row keyed by normalized column names.
// Keys that normalize to "" are dropped.
func NormalizeRow(row map[string]string) domain.RawRow {
	normalized := make(domain.RawRow, len(row))
	for key, value := range row {
		name := NormalizeColumnName(key)
		if name == "" {
			continue
		}
		normalized[name] = value
	}
	return normalized
}

// IsBlankRow reports whether every value of the row is empty or whitespace
func IsBlankRow(row domain.RawRow) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// numberedRow is a normalized non-blank row. number is its 1-based position
// among the non-blank rows; source indexes the tokenized table row it came from.
type numberedRow struct {
	number int
	source int
	row    domain.RawRow
}

// normalizeRows normalizes every row and drops blank lines
func normalizeRows(rows []map[string]string) []numberedRow {
	out := make([]numberedRow, 0, len(rows))
	for i, row := range rows {
		normalized := NormalizeRow(row)
		if IsBlankRow(normalized) {
			continue
		}
		out = append(out, numberedRow{number: len(out) + 1, source: i, row: normalized})
	}
	return out
}
