// Package charts builds declarative chart definitions from well records.
//
// Every builder is a pure function over an already filtered record slice:
// the same input (and detail level, where it applies) always yields a
// structurally identical definition, and an empty input yields an empty but
// valid definition. Definitions only hold copied primitive values.
//
// # Charts
//
//   - box.go: duration distribution per hardness category
//   - pie.go: record count per hardness category
//   - location.go: easting/northing scatter colored by category
//   - heatmap.go: easting/northing scatter colored by hardness index
//   - scatter3d.go: easting/northing/elevation scatter colored by category
//   - set.go: chart kinds and building a selection of them at once
//
// Category colors always come from domain.HardnessColors so a category looks
// the same in every chart.
package charts
