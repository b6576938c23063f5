package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWellRecord(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	raw := RawRow{"tiempo inicio": "2024-01-01 08:00", "tiempo final": "2024-01-01 08:20"}

	rec, ok := NewWellRecord(start, start.Add(20*time.Minute), raw)
	require.True(t, ok)

	assert.Equal(t, 20.0, rec.DurationMinutes)
	assert.Equal(t, HardnessMedium, rec.Hardness)
	assert.Equal(t, 37.5, rec.HardnessIndex)
	assert.Equal(t, raw, rec.Raw)

	raw["tiempo inicio"] = "changed"
	assert.Equal(t, "2024-01-01 08:00", rec.Raw["tiempo inicio"], "record keeps its own copy of the row")
}

func TestNewWellRecord_NegativeDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)

	rec, ok := NewWellRecord(start, start.Add(-30*time.Minute), nil)
	require.True(t, ok)

	assert.Equal(t, -30.0, rec.DurationMinutes)
	assert.Equal(t, HardnessSoft, rec.Hardness)
	assert.Equal(t, 0.0, rec.HardnessIndex)
	assert.True(t, rec.IsNegativeDuration())
}

func TestDurationMinutes_LongIntervals(t *testing.T) {
	start := time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

	got := DurationMinutes(start, end)
	assert.Greater(t, got, 400*365*24*60.0)
}

func TestWellRecord_PositionHelpers(t *testing.T) {
	x, y, z := 10.0, 20.0, 30.0

	rec := WellRecord{}
	assert.False(t, rec.HasLocation())
	assert.False(t, rec.HasPosition3D())

	rec.Easting, rec.Northing = &x, &y
	assert.True(t, rec.HasLocation())
	assert.False(t, rec.HasPosition3D())

	rec.Elevation = &z
	assert.True(t, rec.HasPosition3D())
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{
		Start: time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "start of first day", at: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), want: true},
		{name: "before range", at: time.Date(2024, 1, 9, 23, 59, 59, 0, time.UTC), want: false},
		{name: "last second of end day", at: time.Date(2024, 1, 12, 23, 59, 59, 0, time.UTC), want: true},
		{name: "after range", at: time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.at))
		})
	}
}
