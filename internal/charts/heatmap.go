package charts

import (
	"math"

	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// Marker sizing of the heat scatter: a higher detail level draws smaller points
const (
	heatBaseMarkerSize = 16.0
	heatMinMarkerSize  = 4.0
)

// HeatMarkerSize returns max(4, 16 - detailLevel)
func HeatMarkerSize(detailLevel float64) float64 {
	return math.Max(heatMinMarkerSize, heatBaseMarkerSize-detailLevel)
}

// BuildHardnessHeat plots wells on the easting/northing plane colored by the
// continuous hardness index through HeatColorScale
func BuildHardnessHeat(records []domain.WellRecord, detailLevel float64) domain.ChartDefinition {
	located := withLocation(records)

	x := make([]float64, 0, len(located))
	y := make([]float64, 0, len(located))
	index := make([]float64, 0, len(located))
	for _, rec := range located {
		x = append(x, *rec.Easting)
		y = append(y, *rec.Northing)
		index = append(index, rec.HardnessIndex)
	}

	scale := make([]domain.ColorStop, len(HeatColorScale))
	copy(scale, HeatColorScale)

	layout := transparentLayout("Hardness index scatter map")
	layout.XAxis = coordinateAxis("Easting")
	layout.YAxis = coordinateAxis("Northing")

	return domain.ChartDefinition{
		Traces: []domain.Trace{{
			Type: domain.TraceScatter,
			Mode: "markers",
			X:    x,
			Y:    y,
			Marker: &domain.Marker{
				Size:        HeatMarkerSize(detailLevel),
				ColorValues: index,
				ColorScale:  scale,
				ColorMin:    floatPtr(0),
				ColorMax:    floatPtr(100),
				ShowScale:   true,
				ColorBar: &domain.ColorBar{
					Title:    "Hardness index",
					TickVals: []float64{0, 25, 50, 75, 100},
					TickText: []string{"Very soft (0)", "Soft (25)", "Medium (50)", "Hard (75)", "Very hard (100)"},
				},
			},
			HoverTemplate: "Easting: %{x:.1f}<br>Northing: %{y:.1f}<br>Hardness index: %{marker.color:.1f}<extra></extra>",
		}},
		Layout: layout,
	}
}
