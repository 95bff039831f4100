package sluggable

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("sluggable: validation failed")

	// ErrNotFound is returned when a key resolves to no record.
	ErrNotFound = errors.New("sluggable: record not found")

	// ErrUniqueViolation is returned by stores when a write hits a unique constraint.
	ErrUniqueViolation = errors.New("sluggable: unique constraint violation")

	// ErrInvalidConfig is returned by New for unusable field names.
	ErrInvalidConfig = errors.New("sluggable: invalid configuration")
)

// ValidationError reports a rejected slug. It matches ErrValidationFailed
// with errors.Is and can be translated through TranslationKey.
type ValidationError struct {
	Err               error
	TranslationValues map[string]any
	Field             string
	Value             string
	Message           string
	TranslationKey    string
}

func newTakenError(field, value string, cause error) *ValidationError {
	return &ValidationError{
		Field:             field,
		Value:             value,
		Message:           "has already been taken",
		TranslationKey:    "validation.unique",
		TranslationValues: map[string]any{"field": field, "value": value},
		Err:               cause,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sluggable: %s %q %s", e.Field, e.Value, e.Message)
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
