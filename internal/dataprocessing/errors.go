package dataprocessing

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for sources that are neither CSV nor XLSX
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ValidationError reports a table whose header lacks a required column.
// It aborts ingestion as a whole; no partial result is produced.
type ValidationError struct {
	Column string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("the file does not contain the required column %q", e.Column)
}

// ReadError reports that the tabular source itself could not be read
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("could not read the file: %v", e.Err)
	}
	return fmt.Sprintf("could not read %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err aborts ingestion as opposed to a per-row warning
func IsFatal(err error) bool {
	var validationErr *ValidationError
	var readErr *ReadError
	return errors.As(err, &validationErr) || errors.As(err, &readErr)
}
