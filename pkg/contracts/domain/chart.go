package domain

// ChartDefinition is a declarative, engine-agnostic description of one chart.
// It only holds copied primitive values, never references to WellRecord.
type ChartDefinition struct {
	Traces []Trace       `json:"traces"`
	Layout Layout        `json:"layout"`
	Config *RenderConfig `json:"config,omitempty"`
}

// Trace types understood by the rendering surface
const (
	TraceBox       = "box"
	TracePie       = "pie"
	TraceScatter   = "scatter"
	TraceScatter3D = "scatter3d"
)

// Trace is one data series of a chart
type Trace struct {
	Type          string     `json:"type"`
	Name          string     `json:"name,omitempty"`
	Mode          string     `json:"mode,omitempty"`
	X             []float64  `json:"x,omitempty"`
	Y             []float64  `json:"y,omitempty"`
	Z             []float64  `json:"z,omitempty"`
	Labels        []string   `json:"labels,omitempty"`
	Values        []float64  `json:"values,omitempty"`
	CustomData    [][]string `json:"customdata,omitempty"`
	Marker        *Marker    `json:"marker,omitempty"`
	BoxMean       bool       `json:"boxmean,omitempty"`
	Hole          float64    `json:"hole,omitempty"`
	HoverTemplate string     `json:"hovertemplate,omitempty"`
}

// Marker styles the points, boxes or slices of a trace.
// At most one of Color (uniform), Colors (per point or slice) and
// ColorValues (mapped through ColorScale) is set.
type Marker struct {
	Color       string      `json:"color,omitempty"`
	Colors      []string    `json:"colors,omitempty"`
	ColorValues []float64   `json:"color_values,omitempty"`
	ColorScale  []ColorStop `json:"colorscale,omitempty"`
	ColorMin    *float64    `json:"cmin,omitempty"`
	ColorMax    *float64    `json:"cmax,omitempty"`
	ColorBar    *ColorBar   `json:"colorbar,omitempty"`
	ShowScale   bool        `json:"showscale,omitempty"`
	Size        float64     `json:"size,omitempty"`
	Line        *MarkerLine `json:"line,omitempty"`
}

// ColorStop maps a normalized position in [0,1] to a color
type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// ColorBar describes the legend of a continuous color scale
type ColorBar struct {
	Title    string    `json:"title"`
	TickVals []float64 `json:"tickvals"`
	TickText []string  `json:"ticktext"`
}

// MarkerLine outlines scatter markers
type MarkerLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Layout holds chart-wide presentation options
type Layout struct {
	Title           string `json:"title"`
	XAxis           *Axis  `json:"xaxis,omitempty"`
	YAxis           *Axis  `json:"yaxis,omitempty"`
	Scene           *Scene `json:"scene,omitempty"`
	BoxMode         string `json:"boxmode,omitempty"`
	ShowLegend      bool   `json:"showlegend"`
	LegendTitle     string `json:"legend_title,omitempty"`
	PlotBackground  string `json:"plot_bgcolor,omitempty"`
	PaperBackground string `json:"paper_bgcolor,omitempty"`
}

// Axis describes one cartesian or scene axis
type Axis struct {
	Title     string  `json:"title"`
	DTick     float64 `json:"dtick,omitempty"`
	ShowGrid  bool    `json:"showgrid"`
	GridColor string  `json:"gridcolor,omitempty"`
	GridWidth float64 `json:"gridwidth,omitempty"`
	ShowLine  bool    `json:"showline"`
	LineColor string  `json:"linecolor,omitempty"`
	ZeroLine  bool    `json:"zeroline"`
}

// Scene is the 3-D coordinate system of a scatter3d chart
type Scene struct {
	XAxis      Axis   `json:"xaxis"`
	YAxis      Axis   `json:"yaxis"`
	ZAxis      Axis   `json:"zaxis"`
	AspectMode string `json:"aspectmode"`
	Camera     Camera `json:"camera"`
	Background string `json:"bgcolor,omitempty"`
}

// Camera positions the 3-D viewpoint
type Camera struct {
	Up     Vector3 `json:"up"`
	Center Vector3 `json:"center"`
	Eye    Vector3 `json:"eye"`
}

// Vector3 is a point or direction in scene coordinates
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RenderConfig carries renderer behavior flags
type RenderConfig struct {
	Responsive bool `json:"responsive"`
}
