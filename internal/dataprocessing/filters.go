package dataprocessing

import (
	"sort"
	"time"

	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// FilterOptions is the view state applied to a record collection.
// A nil DateRange and an empty DrillPatterns selection both mean "keep all".
type FilterOptions struct {
	DateRange     *domain.DateRange
	DrillPatterns []string
}

// ApplyFilters returns the records passing every filter (AND composition).
// The input slice is never modified.
func ApplyFilters(records []domain.WellRecord, opts FilterOptions) []domain.WellRecord {
	filtered := records
	if opts.DateRange != nil {
		filtered = FilterByDateRange(filtered, *opts.DateRange)
	}
	return FilterByDrillPattern(filtered, opts.DrillPatterns)
}

// FilterByDateRange keeps records whose start time lies within
// [Start 00:00:00, End 23:59:59]
func FilterByDateRange(records []domain.WellRecord, r domain.DateRange) []domain.WellRecord {
	lower, upper := r.Bounds()
	out := make([]domain.WellRecord, 0, len(records))
	for _, rec := range records {
		if rec.StartTime.Before(lower) || rec.StartTime.After(upper) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// FilterByDrillPattern keeps records whose drill pattern is one of selected.
// An empty selection keeps every record, including those without a pattern.
func FilterByDrillPattern(records []domain.WellRecord, selected []string) []domain.WellRecord {
	out := make([]domain.WellRecord, 0, len(records))
	if len(selected) == 0 {
		return append(out, records...)
	}

	allowed := make(map[string]struct{}, len(selected))
	for _, pattern := range selected {
		allowed[pattern] = struct{}{}
	}

	for _, rec := range records {
		if rec.DrillPattern == nil {
			continue
		}
		if _, ok := allowed[*rec.DrillPattern]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// DefaultDateRange spans the calendar days of the earliest and latest start time
func DefaultDateRange(records []domain.WellRecord) (domain.DateRange, bool) {
	if len(records) == 0 {
		return domain.DateRange{}, false
	}

	first, last := records[0].StartTime, records[0].StartTime
	for _, rec := range records[1:] {
		if rec.StartTime.Before(first) {
			first = rec.StartTime
		}
		if rec.StartTime.After(last) {
			last = rec.StartTime
		}
	}
	return domain.DateRange{Start: truncateDay(first), End: truncateDay(last)}, true
}

// AvailableDrillPatterns lists the distinct drill patterns, sorted descending
func AvailableDrillPatterns(records []domain.WellRecord) []string {
	seen := make(map[string]struct{})
	patterns := make([]string, 0)
	for _, rec := range records {
		if rec.DrillPattern == nil {
			continue
		}
		if _, ok := seen[*rec.DrillPattern]; ok {
			continue
		}
		seen[*rec.DrillPattern] = struct{}{}
		patterns = append(patterns, *rec.DrillPattern)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(patterns)))
	return patterns
}

// HasLocationData reports whether any record carries easting and northing
func HasLocationData(records []domain.WellRecord) bool {
	for _, rec := range records {
		if rec.HasLocation() {
			return true
		}
	}
	return false
}

// Has3DData reports whether any record carries easting, northing and elevation
func Has3DData(records []domain.WellRecord) bool {
	for _, rec := range records {
		if rec.HasPosition3D() {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
