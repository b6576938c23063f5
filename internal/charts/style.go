package charts

import (
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

const (
	transparent = "rgba(0,0,0,0)"
	gridColor   = "rgba(200,200,200,0.3)"
	axisColor   = "black"

	// coordinate grid spacing in meters
	coordinateTick = 500
)

// HeatColorScale maps the normalized hardness index to a green to red ramp
var HeatColorScale = []domain.ColorStop{
	{Offset: 0, Color: "rgb(0,255,0)"},
	{Offset: 0.25, Color: "rgb(255,255,0)"},
	{Offset: 0.5, Color: "rgb(255,165,0)"},
	{Offset: 0.75, Color: "rgb(255,69,0)"},
	{Offset: 1, Color: "rgb(255,0,0)"},
}

// coordinateAxis is the shared easting/northing axis style
func coordinateAxis(title string) *domain.Axis {
	return &domain.Axis{
		Title:     title,
		DTick:     coordinateTick,
		ShowGrid:  true,
		GridColor: gridColor,
		GridWidth: 1,
		ShowLine:  true,
		LineColor: axisColor,
	}
}

func transparentLayout(title string) domain.Layout {
	return domain.Layout{
		Title:           title,
		PlotBackground:  transparent,
		PaperBackground: transparent,
	}
}

// withLocation keeps the records that carry both easting and northing
func withLocation(records []domain.WellRecord) []domain.WellRecord {
	out := make([]domain.WellRecord, 0, len(records))
	for _, rec := range records {
		if rec.HasLocation() {
			out = append(out, rec)
		}
	}
	return out
}

func withPosition3D(records []domain.WellRecord) []domain.WellRecord {
	out := make([]domain.WellRecord, 0, len(records))
	for _, rec := range records {
		if rec.HasPosition3D() {
			out = append(out, rec)
		}
	}
	return out
}

func floatPtr(v float64) *float64 {
	return &v
}
