package charts

import (
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// BuildBoxPlot describes the duration distribution of every hardness category.
// Each category gets a trace, even when no record falls into it, so the
// legend and colors never shift between filter changes.
func BuildBoxPlot(records []domain.WellRecord) domain.ChartDefinition {
	durations := make(map[domain.HardnessLabel][]float64, len(domain.HardnessLabels))
	for _, rec := range records {
		durations[rec.Hardness] = append(durations[rec.Hardness], rec.DurationMinutes)
	}

	traces := make([]domain.Trace, 0, len(domain.HardnessLabels))
	for _, label := range domain.HardnessLabels {
		y := durations[label]
		if y == nil {
			y = []float64{}
		}
		traces = append(traces, domain.Trace{
			Type:          domain.TraceBox,
			Name:          string(label),
			Y:             y,
			Marker:        &domain.Marker{Color: label.Color()},
			BoxMean:       true,
			HoverTemplate: "Duration: %{y:.2f} minutes<extra></extra>",
		})
	}

	layout := transparentLayout("Duration distribution by hardness")
	layout.YAxis = &domain.Axis{Title: "Duration (minutes)", ShowGrid: true}
	layout.BoxMode = "group"

	return domain.ChartDefinition{Traces: traces, Layout: layout}
}
