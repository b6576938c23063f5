package charts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// Kind names one of the chart builders
type Kind string

const (
	KindBox       Kind = "box"
	KindPie       Kind = "pie"
	KindLocation  Kind = "location"
	KindHeatmap   Kind = "heatmap"
	KindScatter3D Kind = "scatter3d"
)

// DefaultDetailLevel is the heat scatter detail level used when none is chosen
const DefaultDetailLevel = 2.0

// AllKinds lists every chart in dashboard order
var AllKinds = []Kind{KindBox, KindPie, KindLocation, KindHeatmap, KindScatter3D}

// ErrUnknownKind is returned for chart names outside AllKinds
var ErrUnknownKind = errors.New("unknown chart kind")

// Valid reports whether k is one of AllKinds
func (k Kind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind converts a chart name, case-insensitively
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}

// ParseKinds converts a comma separated list of chart names.
// An empty list selects every chart.
func ParseKinds(list string) ([]Kind, error) {
	if strings.TrimSpace(list) == "" {
		return append([]Kind(nil), AllKinds...), nil
	}

	var kinds []Kind
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return Normalize(kinds), nil
}

// Normalize drops duplicates and unknown kinds and returns the rest in dashboard order
func Normalize(kinds []Kind) []Kind {
	selected := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		selected[k] = true
	}

	out := make([]Kind, 0, len(selected))
	for _, k := range AllKinds {
		if selected[k] {
			out = append(out, k)
		}
	}
	return out
}

// Options are the display parameters of a chart selection
type Options struct {
	Kinds       []Kind
	DetailLevel float64
}

// Chart pairs a definition with the kind that produced it
type Chart struct {
	Kind       Kind                   `json:"kind"`
	Definition domain.ChartDefinition `json:"definition"`
}

// Build runs the builder of one chart kind
func Build(kind Kind, records []domain.WellRecord, detailLevel float64) (domain.ChartDefinition, error) {
	switch kind {
	case KindBox:
		return BuildBoxPlot(records), nil
	case KindPie:
		return BuildPie(records), nil
	case KindLocation:
		return BuildLocation(records), nil
	case KindHeatmap:
		return BuildHardnessHeat(records, detailLevel), nil
	case KindScatter3D:
		return BuildScatter3D(records), nil
	default:
		return domain.ChartDefinition{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// BuildSet builds the selected charts in dashboard order.
// A nil Kinds selection builds every chart; an empty non-nil one builds none.
func BuildSet(records []domain.WellRecord, opts Options) ([]Chart, error) {
	kinds := AllKinds
	if opts.Kinds != nil {
		for _, k := range opts.Kinds {
			if !k.Valid() {
				return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
			}
		}
		kinds = Normalize(opts.Kinds)
	}

	charts := make([]Chart, 0, len(kinds))
	for _, kind := range kinds {
		def, err := Build(kind, records, opts.DetailLevel)
		if err != nil {
			return nil, err
		}
		charts = append(charts, Chart{Kind: kind, Definition: def})
	}
	return charts, nil
}
