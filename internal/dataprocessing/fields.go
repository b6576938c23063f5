package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate parses a calendar date/time cell in loc (time.Local when nil).
// Empty or unparseable input yields false; no timezone normalization is done.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	parsed, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ParseNumber parses a numeric cell, accepting a decimal comma.
// It returns nil for empty, unparseable or non-finite input, never zero.
func ParseNumber(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	value = strings.Replace(value, ",", ".", 1)

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return &parsed
}

// ParseText returns the trimmed cell, or nil when it is empty
func ParseText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
