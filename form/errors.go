package form

import "errors"

// ErrBusy is returned when an action is triggered while the same action is
// still running.
var ErrBusy = errors.New("operation already in progress")

// ValidationError blocks an action before any network call. Field names the
// offending form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
