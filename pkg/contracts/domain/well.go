package domain

import (
	"math"
	"time"
)

// Source column names, compared after trimming and lower-casing
const (
	ColumnStartTime        = "tiempo inicio"
	ColumnEndTime          = "tiempo final"
	ColumnDrillPattern     = "drill_pattern"
	ColumnWellID           = "pozo"
	ColumnMaterialOperator = "material_operator"
	ColumnOperatorDepth    = "prof. por operador"
	ColumnElevation        = "elevacion"
	ColumnEasting          = "este"
	ColumnNorthing         = "norte"
)

// RequiredColumns must be present in every ingested table
var RequiredColumns = []string{ColumnStartTime, ColumnEndTime}

// RawRow is a normalized source row keyed by trimmed, lower-cased column name
type RawRow map[string]string

// Clone returns an independent copy of the row
func (r RawRow) Clone() RawRow {
	if r == nil {
		return nil
	}
	out := make(RawRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// WellRecord is one drill interval with its derived hardness.
// Optional fields are nil when the column is missing or the cell did not parse.
type WellRecord struct {
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	DurationMinutes  float64       `json:"duration_minutes"`
	Hardness         HardnessLabel `json:"hardness"`
	HardnessIndex    float64       `json:"hardness_index"`
	DrillPattern     *string       `json:"drill_pattern,omitempty"`
	WellID           *string       `json:"well_id,omitempty"`
	MaterialOperator *string       `json:"material_operator,omitempty"`
	OperatorDepth    *float64      `json:"operator_depth,omitempty"`
	Elevation        *float64      `json:"elevation,omitempty"`
	Easting          *float64      `json:"easting,omitempty"`
	Northing         *float64      `json:"northing,omitempty"`
	Raw              RawRow        `json:"raw,omitempty"`
}

// NewWellRecord derives duration, label and index from the two timestamps.
// It returns false when the duration is not a finite number of minutes.
func NewWellRecord(start, end time.Time, raw RawRow) (WellRecord, bool) {
	minutes := DurationMinutes(start, end)
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return WellRecord{}, false
	}

	return WellRecord{
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
		Hardness:        Classify(minutes),
		HardnessIndex:   HardnessIndex(minutes),
		Raw:             raw.Clone(),
	}, true
}

// DurationMinutes returns end minus start in minutes at millisecond precision.
// Unlike time.Time.Sub it does not saturate for intervals beyond ~292 years.
func DurationMinutes(start, end time.Time) float64 {
	return float64(end.UnixMilli()-start.UnixMilli()) / float64(time.Minute/time.Millisecond)
}

// HasLocation reports whether both easting and northing are known
func (w WellRecord) HasLocation() bool {
	return w.Easting != nil && w.Northing != nil
}

// HasPosition3D reports whether easting, northing and elevation are known
func (w WellRecord) HasPosition3D() bool {
	return w.HasLocation() && w.Elevation != nil
}

// IsNegativeDuration flags records whose end time precedes the start time.
// Such rows are kept and classified but usually point at a data entry error.
func (w WellRecord) IsNegativeDuration() bool {
	return w.DurationMinutes < 0
}

// ProcessedResult is the outcome of one ingestion.
// Rows that failed required parsing are absent from Records and described in Warnings.
type ProcessedResult struct {
	Records  []WellRecord `json:"records"`
	Warnings []string     `json:"warnings"`
}

// DateRange selects records by start day, both ends inclusive
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Bounds returns the first and last instant covered by the range,
// i.e. Start at 00:00:00 and End at 23:59:59 in their own locations.
func (d DateRange) Bounds() (time.Time, time.Time) {
	sy, sm, sd := d.Start.Date()
	ey, em, ed := d.End.Date()
	lower := time.Date(sy, sm, sd, 0, 0, 0, 0, d.Start.Location())
	upper := time.Date(ey, em, ed, 23, 59, 59, 0, d.End.Location())
	return lower, upper
}

// Contains reports whether t falls inside the range
func (d DateRange) Contains(t time.Time) bool {
	lower, upper := d.Bounds()
	return !t.Before(lower) && !t.After(upper)
}

// IsZero reports whether no range was set
func (d DateRange) IsZero() bool {
	return d.Start.IsZero() && d.End.IsZero()
}
