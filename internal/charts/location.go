package charts

import (
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

const locationMarkerSize = 10

// BuildLocation plots wells on the easting/northing plane colored by category.
// Records without both coordinates are left out.
func BuildLocation(records []domain.WellRecord) domain.ChartDefinition {
	located := withLocation(records)

	x := make([]float64, 0, len(located))
	y := make([]float64, 0, len(located))
	colors := make([]string, 0, len(located))
	custom := make([][]string, 0, len(located))
	for _, rec := range located {
		x = append(x, *rec.Easting)
		y = append(y, *rec.Northing)
		colors = append(colors, rec.Hardness.Color())
		custom = append(custom, []string{string(rec.Hardness)})
	}

	layout := transparentLayout("Well location (easting vs northing)")
	layout.XAxis = coordinateAxis("Easting")
	layout.YAxis = coordinateAxis("Northing")

	return domain.ChartDefinition{
		Traces: []domain.Trace{{
			Type:       domain.TraceScatter,
			Mode:       "markers",
			X:          x,
			Y:          y,
			CustomData: custom,
			Marker: &domain.Marker{
				Colors: colors,
				Size:   locationMarkerSize,
				Line:   &domain.MarkerLine{Color: "#1f2933", Width: 0.5},
			},
			HoverTemplate: "Easting: %{x}<br>Northing: %{y}<br>Hardness: %{customdata[0]}<extra></extra>",
		}},
		Layout: layout,
	}
}
