package validation

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nibaldox/dureza-relativa/internal/charts"
	"github.com/nibaldox/dureza-relativa/internal/config"
	"github.com/nibaldox/dureza-relativa/internal/dataprocessing"
	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
	"github.com/nibaldox/dureza-relativa/internal/exporter"
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// DateLayout is the accepted format of the start and end days
const DateLayout = "2006-01-02"

// DisplayRequest is the raw display state sent by the dashboard or the CLI
type DisplayRequest struct {
	Start    string   `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End      string   `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Patterns []string `json:"patterns" validate:"dive,required"`
	Detail   string   `json:"detail" validate:"omitempty,detaillevel"`
	// Charts lists visible chart kinds. nil selects the defaults, an empty list hides every chart.
	Charts []string `json:"charts" validate:"dive,chartkind"`
	Format string   `json:"format" validate:"omitempty,oneof=json msgpack"`
}

// DisplayOptions is a validated DisplayRequest
type DisplayOptions struct {
	Filters  dataprocessing.FilterOptions
	Charts   charts.Options
	Encoding exporter.Encoding
}

// OptionsValidator turns display requests into filter and chart options
type OptionsValidator struct {
	validate      *validator.Validate
	location      *time.Location
	defaultDetail float64
	defaultKinds  []charts.Kind
}

// NewOptionsValidator creates a validator that resolves days in loc and fills
// absent detail levels and chart selections with the given defaults
func NewOptionsValidator(loc *time.Location, defaultDetail float64, defaultKinds []charts.Kind) *OptionsValidator {
	if loc == nil {
		loc = time.Local
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("detaillevel", isDetailLevel)
	v.RegisterValidation("chartkind", isChartKind)
	v.RegisterStructValidation(dateOrder, DisplayRequest{})

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &OptionsValidator{
		validate:      v,
		location:      loc,
		defaultDetail: defaultDetail,
		defaultKinds:  defaultKinds,
	}
}

// Validate checks req and resolves it. Failures are *apierrors.APIError
// values listing every rejected field.
func (v *OptionsValidator) Validate(req DisplayRequest) (DisplayOptions, error) {
	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return DisplayOptions{}, err
		}

		details := make([]apierrors.ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, apierrors.ValidationError{
				Field:   fe.Field(),
				Message: formatValidationError(fe),
			})
		}
		return DisplayOptions{}, apierrors.InvalidOptions(details)
	}

	opts := DisplayOptions{
		Filters: dataprocessing.FilterOptions{DrillPatterns: req.Patterns},
		Charts: charts.Options{
			Kinds:       v.defaultKinds,
			DetailLevel: v.defaultDetail,
		},
		Encoding: exporter.EncodingJSON,
	}

	if req.Start != "" {
		start, _ := time.ParseInLocation(DateLayout, req.Start, v.location)
		end, _ := time.ParseInLocation(DateLayout, req.End, v.location)
		opts.Filters.DateRange = &domain.DateRange{Start: start, End: end}
	}

	if req.Detail != "" {
		opts.Charts.DetailLevel, _ = strconv.ParseFloat(req.Detail, 64)
	}

	if req.Charts != nil {
		kinds := make([]charts.Kind, 0, len(req.Charts))
		for _, name := range req.Charts {
			kind, _ := charts.ParseKind(name)
			kinds = append(kinds, kind)
		}
		opts.Charts.Kinds = charts.Normalize(kinds)
	}

	if req.Format != "" {
		opts.Encoding = exporter.Encoding(req.Format)
	}

	return opts, nil
}

// RequestFromQuery reads a DisplayRequest from URL query parameters.
// patterns and charts accept both repeated keys and comma separated values;
// a present but empty charts key selects no chart.
func RequestFromQuery(q url.Values) DisplayRequest {
	req := DisplayRequest{
		Start:    strings.TrimSpace(q.Get("start")),
		End:      strings.TrimSpace(q.Get("end")),
		Patterns: splitList(q["patterns"]),
		Detail:   strings.TrimSpace(q.Get("detail")),
		Format:   strings.TrimSpace(q.Get("format")),
	}
	if values, ok := q["charts"]; ok {
		req.Charts = splitList(values)
		if req.Charts == nil {
			req.Charts = []string{}
		}
	}
	return req
}

// SplitList splits comma separated values, dropping blanks
func SplitList(value string) []string {
	return splitList([]string{value})
}

func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// isDetailLevel accepts numbers in [0.5, 10] on a 0.5 step
func isDetailLevel(fl validator.FieldLevel) bool {
	d, err := strconv.ParseFloat(fl.Field().String(), 64)
	if err != nil || math.IsNaN(d) {
		return false
	}
	if d < config.MinDetailLevel || d > config.MaxDetailLevel {
		return false
	}
	steps := d / config.DetailLevelStep
	return steps == math.Trunc(steps)
}

func isChartKind(fl validator.FieldLevel) bool {
	return charts.Kind(strings.ToLower(strings.TrimSpace(fl.Field().String()))).Valid()
}

// dateOrder requires both ends of a range and rejects ranges ending before they start
func dateOrder(sl validator.StructLevel) {
	req := sl.Current().Interface().(DisplayRequest)
	switch {
	case req.Start == "" && req.End == "":
		return
	case req.Start == "":
		sl.ReportError(req.Start, "start", "Start", "required_with", "end")
		return
	case req.End == "":
		sl.ReportError(req.End, "end", "End", "required_with", "start")
		return
	}

	start, errStart := time.Parse(DateLayout, req.Start)
	end, errEnd := time.Parse(DateLayout, req.End)
	if errStart != nil || errEnd != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(req.End, "end", "End", "gtefield", "start")
	}
}

func formatValidationError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must not be blank", field)
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", field)
	case "detaillevel":
		return fmt.Sprintf("%s must be between %.1f and %.0f in steps of %.1f",
			field, config.MinDetailLevel, config.MaxDetailLevel, config.DetailLevelStep)
	case "chartkind":
		return fmt.Sprintf("%s must be one of: %s", field, kindNames())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func kindNames() string {
	names := make([]string, len(charts.AllKinds))
	for i, k := range charts.AllKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
