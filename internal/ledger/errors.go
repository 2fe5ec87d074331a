package ledger

import "errors"

// Business errors raised by the core. Handlers map these to HTTP
// statuses; they are never escalated to 500. Missing-record and
// not-owner outcomes are signalled structurally (nil record, guard
// deny) rather than by sentinel.
var (
	// ErrInvalidRange: a period query with missing or inverted bounds.
	ErrInvalidRange = errors.New("rango de fechas invalido")

	// ErrUnsupportedFormat: unknown report export format.
	ErrUnsupportedFormat = errors.New("formato de reporte no soportado")
)

// ValidationError carries one or more human-readable messages for a
// rejected mutation (bad tipo, saved amount over target, ...).
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validacion fallida"
	}
	return e.Messages[0]
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
