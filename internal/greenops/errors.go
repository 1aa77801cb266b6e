package greenops

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrInvalidUnit indicates an unrecognized carbon unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative carbon value.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a NaN, infinite, or overflowing value.
	ErrCalculationOverflow = constError("calculation overflow")

	// ErrInvalidQuantity indicates a quantity string that is not "<number>[unit]".
	ErrInvalidQuantity = constError("invalid carbon quantity")

	// ErrInvalidNumber indicates text that is not a finite decimal number.
	ErrInvalidNumber = constError("invalid number")
)
