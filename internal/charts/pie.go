package charts

import (
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// BuildPie counts records per hardness category, one slice per category
func BuildPie(records []domain.WellRecord) domain.ChartDefinition {
	counts := make(map[domain.HardnessLabel]int, len(domain.HardnessLabels))
	for _, rec := range records {
		counts[rec.Hardness]++
	}

	labels := make([]string, 0, len(domain.HardnessLabels))
	values := make([]float64, 0, len(domain.HardnessLabels))
	colors := make([]string, 0, len(domain.HardnessLabels))
	for _, label := range domain.HardnessLabels {
		labels = append(labels, string(label))
		values = append(values, float64(counts[label]))
		colors = append(colors, label.Color())
	}

	layout := transparentLayout("Well count by hardness")
	layout.ShowLegend = true

	return domain.ChartDefinition{
		Traces: []domain.Trace{{
			Type:          domain.TracePie,
			Labels:        labels,
			Values:        values,
			Marker:        &domain.Marker{Colors: colors},
			Hole:          0.2,
			HoverTemplate: "%{label}: %{value} wells<extra></extra>",
		}},
		Layout: layout,
	}
}
