package exporter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// TimeLayout is how timestamps are written to exported tables
const TimeLayout = "2006-01-02 15:04:05"

// RecordHeaders are the exported columns, in order
var RecordHeaders = []string{
	"start_time",
	"end_time",
	"duration_minutes",
	"hardness",
	"hardness_index",
	"drill_pattern",
	"well_id",
	"material_operator",
	"operator_depth",
	"elevation",
	"easting",
	"northing",
}

// RecordRow flattens a record into RecordHeaders order.
// Absent optional fields become empty cells.
func RecordRow(rec domain.WellRecord) []string {
	return []string{
		formatTime(rec.StartTime),
		formatTime(rec.EndTime),
		formatFloat(rec.DurationMinutes),
		string(rec.Hardness),
		formatFloat(rec.HardnessIndex),
		formatOptionalString(rec.DrillPattern),
		formatOptionalString(rec.WellID),
		formatOptionalString(rec.MaterialOperator),
		formatOptionalFloat(rec.OperatorDepth),
		formatOptionalFloat(rec.Elevation),
		formatOptionalFloat(rec.Easting),
		formatOptionalFloat(rec.Northing),
	}
}

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatOptionalFloat keeps full precision so coordinates round-trip
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatOptionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
