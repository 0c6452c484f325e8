package feature

import "fmt"

// ValidationError reports a field that is absent or failed numeric coercion.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid or missing numeric field: %s", e.Field)
}

// MissingFieldError reports an absent required field, checked before any
// coercion. Its message is part of the yield endpoint's contract.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing field: %s", e.Field)
}

// UnknownCategoryError reports a categorical label absent from the
// training-time encoding for its domain.
type UnknownCategoryError struct {
	Domain string
	Label  string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Domain, e.Label)
}
