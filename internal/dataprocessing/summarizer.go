package dataprocessing

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// CategorySummary describes the drill durations of one hardness category
type CategorySummary struct {
	Hardness domain.HardnessLabel `json:"hardness"`
	Color    string               `json:"color"`
	Count    int                  `json:"count"`
	Share    float64              `json:"share"`
	Mean     float64              `json:"mean"`
	StdDev   float64              `json:"std_dev"`
	Min      float64              `json:"min"`
	Q1       float64              `json:"q1"`
	Median   float64              `json:"median"`
	Q3       float64              `json:"q3"`
	Max      float64              `json:"max"`
}

// DatasetSummary is a data-quality and distribution overview of a record set
type DatasetSummary struct {
	TotalRecords      int               `json:"total_records"`
	NegativeDurations int               `json:"negative_durations"`
	WithLocation      int               `json:"with_location"`
	WithPosition3D    int               `json:"with_position_3d"`
	FirstStart        *time.Time        `json:"first_start,omitempty"`
	LastStart         *time.Time        `json:"last_start,omitempty"`
	MeanHardnessIndex float64           `json:"mean_hardness_index"`
	Categories        []CategorySummary `json:"categories"`
}

// Summarize computes per-category duration statistics in display order.
// Categories without records are reported with zero values.
func Summarize(records []domain.WellRecord) DatasetSummary {
	summary := DatasetSummary{
		TotalRecords: len(records),
		Categories:   make([]CategorySummary, 0, len(domain.HardnessLabels)),
	}

	durations := make(map[domain.HardnessLabel][]float64, len(domain.HardnessLabels))
	indices := make([]float64, 0, len(records))
	for i := range records {
		rec := &records[i]
		durations[rec.Hardness] = append(durations[rec.Hardness], rec.DurationMinutes)
		indices = append(indices, rec.HardnessIndex)

		if rec.IsNegativeDuration() {
			summary.NegativeDurations++
		}
		if rec.HasLocation() {
			summary.WithLocation++
		}
		if rec.HasPosition3D() {
			summary.WithPosition3D++
		}
		if summary.FirstStart == nil || rec.StartTime.Before(*summary.FirstStart) {
			start := rec.StartTime
			summary.FirstStart = &start
		}
		if summary.LastStart == nil || rec.StartTime.After(*summary.LastStart) {
			start := rec.StartTime
			summary.LastStart = &start
		}
	}

	if len(indices) > 0 {
		summary.MeanHardnessIndex = stat.Mean(indices, nil)
	}

	for _, label := range domain.HardnessLabels {
		cat := summarizeCategory(durations[label])
		cat.Hardness = label
		cat.Color = label.Color()
		if len(records) > 0 {
			cat.Share = float64(cat.Count) / float64(len(records))
		}
		summary.Categories = append(summary.Categories, cat)
	}

	return summary
}

func summarizeCategory(values []float64) CategorySummary {
	if len(values) == 0 {
		return CategorySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	cat := CategorySummary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
	// StdDev is undefined for a single sample
	if len(sorted) > 1 {
		cat.StdDev = stat.StdDev(sorted, nil)
	}
	return cat
}
