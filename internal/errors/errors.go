package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error with an HTTP status and a stable machine readable code.
// ErrorHandler turns it into a problem document.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Is matches another APIError with the same code, so errors.Is works on
// copies carrying different details
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.ErrorCode == e.ErrorCode
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every rejected field of a request
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newAPIError(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// ErrMissingFile is returned by uploads without a "file" form field
var ErrMissingFile = newAPIError(http.StatusBadRequest, "MISSING_FILE", "A file must be uploaded in the \"file\" form field", nil)

// InvalidRequestWithError wraps a malformed request body or form
func InvalidRequestWithError(err error) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// ErrValidation rejects a single request field
func ErrValidation(field, message string) *APIError {
	return newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message}},
	})
}

// InvalidOptions reports rejected display options (date range, patterns, detail, charts)
func InvalidOptions(errors []ValidationError) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_OPTIONS", "Display options are invalid", ValidationErrors{Errors: errors})
}

// NotFoundError creates a not found error for the named resource
func NotFoundError(resource string) *APIError {
	return newAPIError(http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), resource)
}
