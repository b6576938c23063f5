package domain

// HardnessLabel is the categorical rock hardness derived from drill duration
type HardnessLabel string

const (
	HardnessSoft     HardnessLabel = "soft rock"
	HardnessMedium   HardnessLabel = "medium rock"
	HardnessHard     HardnessLabel = "hard rock"
	HardnessVeryHard HardnessLabel = "very hard rock"
)

// Category breakpoints in minutes. Label and index share them so the
// categorical and continuous charts agree at every boundary.
const (
	MediumThresholdMinutes   = 16.0
	HardThresholdMinutes     = 24.0
	VeryHardThresholdMinutes = 40.0
	SaturationMinutes        = 60.0
)

// HardnessLabels lists every category in display order.
// Charts iterate this slice so legends and colors stay stable.
var HardnessLabels = []HardnessLabel{
	HardnessSoft,
	HardnessMedium,
	HardnessHard,
	HardnessVeryHard,
}

// HardnessColors is the single category to color lookup shared by every chart
var HardnessColors = map[HardnessLabel]string{
	HardnessSoft:     "#98FB98",
	HardnessMedium:   "#FFD700",
	HardnessHard:     "#e74c3c",
	HardnessVeryHard: "#BA55D3",
}

// Color returns the display color of the label
func (l HardnessLabel) Color() string {
	return HardnessColors[l]
}

// IsValid reports whether the label is one of the four categories
func (l HardnessLabel) IsValid() bool {
	_, ok := HardnessColors[l]
	return ok
}

// Classify maps a drill duration in minutes to its hardness category.
// Lower bounds are inclusive: 16 is medium, 24 is hard, 40 is very hard.
func Classify(minutes float64) HardnessLabel {
	switch {
	case minutes < MediumThresholdMinutes:
		return HardnessSoft
	case minutes < HardThresholdMinutes:
		return HardnessMedium
	case minutes < VeryHardThresholdMinutes:
		return HardnessHard
	default:
		return HardnessVeryHard
	}
}

// HardnessIndex maps a drill duration in minutes to a continuous 0-100 score.
//
// The map is piecewise linear with 25-point segments ending at 16, 24, 40
// and 60 minutes. Negative durations clamp to 0 and anything past 60 minutes
// saturates at 100.
func HardnessIndex(minutes float64) float64 {
	switch {
	case minutes < 0:
		return 0
	case minutes <= MediumThresholdMinutes:
		return 25 * (minutes / 16)
	case minutes <= HardThresholdMinutes:
		return 25 + 25*((minutes-16)/8)
	case minutes <= VeryHardThresholdMinutes:
		return 50 + 25*((minutes-24)/16)
	case minutes <= SaturationMinutes:
		return 75 + 25*((minutes-40)/20)
	default:
		return 100
	}
}
