package charts

import (
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

const scatter3DMarkerSize = 3

// BuildScatter3D plots wells in easting/northing/elevation space colored by
// category. Only records with all three coordinates are drawn.
func BuildScatter3D(records []domain.WellRecord) domain.ChartDefinition {
	positioned := withPosition3D(records)

	x := make([]float64, 0, len(positioned))
	y := make([]float64, 0, len(positioned))
	z := make([]float64, 0, len(positioned))
	colors := make([]string, 0, len(positioned))
	custom := make([][]string, 0, len(positioned))
	for _, rec := range positioned {
		x = append(x, *rec.Easting)
		y = append(y, *rec.Northing)
		z = append(z, *rec.Elevation)
		colors = append(colors, rec.Hardness.Color())
		custom = append(custom, []string{string(rec.Hardness)})
	}

	elevationAxis := *coordinateAxis("Elevation")
	elevationAxis.DTick = 0
	elevationAxis.GridWidth = 0

	layout := transparentLayout("3D well view")
	layout.Scene = &domain.Scene{
		XAxis:      *coordinateAxis("Easting"),
		YAxis:      *coordinateAxis("Northing"),
		ZAxis:      elevationAxis,
		AspectMode: "data",
		Camera: domain.Camera{
			Up:     domain.Vector3{Z: 1},
			Center: domain.Vector3{},
			Eye:    domain.Vector3{X: 1.5, Y: 1.5, Z: 1.5},
		},
		Background: transparent,
	}

	return domain.ChartDefinition{
		Traces: []domain.Trace{{
			Type:       domain.TraceScatter3D,
			Mode:       "markers",
			X:          x,
			Y:          y,
			Z:          z,
			CustomData: custom,
			Marker: &domain.Marker{
				Colors: colors,
				Size:   scatter3DMarkerSize,
			},
			HoverTemplate: "Easting: %{x}<br>Northing: %{y}<br>Elevation: %{z}<br>Hardness: %{customdata[0]}<extra></extra>",
		}},
		Layout: layout,
		Config: &domain.RenderConfig{Responsive: true},
	}
}
