package emissions

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrMissingFactor indicates a factor table without an entry for a required category.
	ErrMissingFactor = constError("missing emission factor")

	// ErrNonFiniteInput indicates a NaN or infinite activity value or factor.
	ErrNonFiniteInput = constError("non-finite input")

	// ErrNegativeFactor indicates a factor below zero.
	ErrNegativeFactor = constError("negative emission factor")
)

// MissingFactorError names the category a factor table is missing.
type MissingFactorError struct {
	Category Category
}

func (e *MissingFactorError) Error() string {
	return fmt.Sprintf("%s for category %q", ErrMissingFactor, e.Category)
}

// Unwrap returns ErrMissingFactor.
func (e *MissingFactorError) Unwrap() error { return ErrMissingFactor }

// NonFiniteError names the field that held a NaN or infinite value.
// Field is "scope1.diesel" for activity values and "factor.diesel" for factors.
type NonFiniteError struct {
	Field string
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%s: %s = %v", ErrNonFiniteInput, e.Field, e.Value)
}

// Unwrap returns ErrNonFiniteInput.
func (e *NonFiniteError) Unwrap() error { return ErrNonFiniteInput }
