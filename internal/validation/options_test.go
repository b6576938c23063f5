package validation

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibaldox/dureza-relativa/internal/charts"
	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
	"github.com/nibaldox/dureza-relativa/internal/exporter"
)

func newTestValidator() *OptionsValidator {
	return NewOptionsValidator(time.UTC, charts.DefaultDetailLevel, nil)
}

func invalidFields(t *testing.T, err error) []string {
	t.Helper()
	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, "INVALID_OPTIONS", apiErr.ErrorCode)

	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)

	fields := make([]string, len(details.Errors))
	for i, e := range details.Errors {
		fields[i] = e.Field
		assert.NotEmpty(t, e.Message)
	}
	return fields
}

func TestOptionsValidator_Defaults(t *testing.T) {
	opts, err := newTestValidator().Validate(DisplayRequest{})
	require.NoError(t, err)

	assert.Nil(t, opts.Filters.DateRange)
	assert.Empty(t, opts.Filters.DrillPatterns)
	assert.Nil(t, opts.Charts.Kinds, "nil selects every chart")
	assert.Equal(t, charts.DefaultDetailLevel, opts.Charts.DetailLevel)
	assert.Equal(t, exporter.EncodingJSON, opts.Encoding)
}

func TestOptionsValidator_ConfiguredDefaultKinds(t *testing.T) {
	v := NewOptionsValidator(time.UTC, 3, []charts.Kind{charts.KindPie})

	opts, err := v.Validate(DisplayRequest{})
	require.NoError(t, err)
	assert.Equal(t, []charts.Kind{charts.KindPie}, opts.Charts.Kinds)
	assert.Equal(t, 3.0, opts.Charts.DetailLevel)
}

func TestOptionsValidator_Valid(t *testing.T) {
	req := DisplayRequest{
		Start:    "2024-01-01",
		End:      "2024-01-31",
		Patterns: []string{"P-01", "P-02"},
		Detail:   "4.5",
		Charts:   []string{"heatmap", "BOX", "heatmap"},
		Format:   "msgpack",
	}

	opts, err := newTestValidator().Validate(req)
	require.NoError(t, err)

	require.NotNil(t, opts.Filters.DateRange)
	assert.True(t, opts.Filters.DateRange.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, opts.Filters.DateRange.End.Equal(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"P-01", "P-02"}, opts.Filters.DrillPatterns)
	assert.Equal(t, 4.5, opts.Charts.DetailLevel)
	assert.Equal(t, []charts.Kind{charts.KindBox, charts.KindHeatmap}, opts.Charts.Kinds)
	assert.Equal(t, exporter.EncodingMsgpack, opts.Encoding)
}

func TestOptionsValidator_SameDayRange(t *testing.T) {
	opts, err := newTestValidator().Validate(DisplayRequest{Start: "2024-03-05", End: "2024-03-05"})
	require.NoError(t, err)
	require.NotNil(t, opts.Filters.DateRange)
}

func TestOptionsValidator_EmptyChartSelection(t *testing.T) {
	opts, err := newTestValidator().Validate(DisplayRequest{Charts: []string{}})
	require.NoError(t, err)
	assert.NotNil(t, opts.Charts.Kinds)
	assert.Empty(t, opts.Charts.Kinds)
}

func TestOptionsValidator_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		req        DisplayRequest
		wantFields []string
	}{
		{name: "end before start", req: DisplayRequest{Start: "2024-02-01", End: "2024-01-01"}, wantFields: []string{"end"}},
		{name: "start only", req: DisplayRequest{Start: "2024-02-01"}, wantFields: []string{"end"}},
		{name: "end only", req: DisplayRequest{End: "2024-02-01"}, wantFields: []string{"start"}},
		{name: "malformed date", req: DisplayRequest{Start: "01/02/2024", End: "2024-02-01"}, wantFields: []string{"start"}},
		{name: "detail below range", req: DisplayRequest{Detail: "0"}, wantFields: []string{"detail"}},
		{name: "detail above range", req: DisplayRequest{Detail: "10.5"}, wantFields: []string{"detail"}},
		{name: "detail off step", req: DisplayRequest{Detail: "1.25"}, wantFields: []string{"detail"}},
		{name: "detail not a number", req: DisplayRequest{Detail: "high"}, wantFields: []string{"detail"}},
		{name: "unknown chart", req: DisplayRequest{Charts: []string{"pie", "radar"}}, wantFields: []string{"charts[1]"}},
		{name: "blank pattern", req: DisplayRequest{Patterns: []string{""}}, wantFields: []string{"patterns[0]"}},
		{name: "unknown format", req: DisplayRequest{Format: "xml"}, wantFields: []string{"format"}},
		{
			name:       "several fields",
			req:        DisplayRequest{Detail: "11", Format: "xml"},
			wantFields: []string{"detail", "format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestValidator().Validate(tt.req)
			require.Error(t, err)
			assert.ElementsMatch(t, tt.wantFields, invalidFields(t, err))
		})
	}
}

func TestOptionsValidator_DetailBounds(t *testing.T) {
	for _, detail := range []string{"0.5", "1", "2.0", "9.5", "10"} {
		t.Run(detail, func(t *testing.T) {
			_, err := newTestValidator().Validate(DisplayRequest{Detail: detail})
			assert.NoError(t, err)
		})
	}
}

func TestRequestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  DisplayRequest
	}{
		{
			name:  "empty",
			query: "",
			want:  DisplayRequest{},
		},
		{
			name:  "comma separated and repeated lists",
			query: "start=2024-01-01&end=2024-01-02&patterns=P-01,%20P-02&patterns=P-03&charts=box,pie&detail=3&format=msgpack",
			want: DisplayRequest{
				Start:    "2024-01-01",
				End:      "2024-01-02",
				Patterns: []string{"P-01", "P-02", "P-03"},
				Charts:   []string{"box", "pie"},
				Detail:   "3",
				Format:   "msgpack",
			},
		},
		{
			name:  "present but empty charts hides every chart",
			query: "charts=",
			want:  DisplayRequest{Charts: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, RequestFromQuery(q))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	assert.Nil(t, SplitList(""))
}
