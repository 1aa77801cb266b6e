package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// unitFactor returns the kilogram conversion factor for a unit, matching
// case-insensitively and accepting the CO2e suffix.
func unitFactor(unit string) (float64, bool) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), "co2e") {
	case "g":
		return GramsToKg, true
	case "kg":
		return KgToKg, true
	case "t", "tonnes", "tonne":
		return TonsToKg, true
	case "lb", "lbs":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon value in any recognized unit to kilograms.
//
// It returns ErrCalculationOverflow for NaN or infinite input (or an overflowing
// product), ErrNegativeValue for values below zero, and ErrInvalidUnit when the
// unit is not recognized.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := unitFactor(unit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}

	kg := value * factor
	if math.IsInf(kg, 0) {
		return 0, ErrCalculationOverflow
	}
	return kg, nil
}

// NormalizeToTonnes converts a carbon value in any recognized unit to tonnes.
func NormalizeToTonnes(value float64, unit string) (float64, error) {
	kg, err := NormalizeToKg(value, unit)
	if err != nil {
		return 0, err
	}
	return kg / TonsToKg, nil
}

// IsRecognizedUnit reports whether unit is a supported carbon unit.
func IsRecognizedUnit(unit string) bool {
	_, ok := unitFactor(unit)
	return ok
}

// ParseQuantity parses "150", "150t", "2,500 kg" or "1.2tCO2e" into a
// CarbonInput. A bare number is read as tonnes.
func ParseQuantity(s string) (CarbonInput, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return CarbonInput{}, fmt.Errorf("%w: empty", ErrInvalidQuantity)
	}

	split := strings.IndexFunc(trimmed, func(r rune) bool {
		return (r < '0' || r > '9') && !strings.ContainsRune(".,-+eE", r)
	})
	numPart, unitPart := trimmed, "t"
	if split >= 0 {
		numPart = strings.TrimSpace(trimmed[:split])
		unitPart = strings.TrimSpace(trimmed[split:])
	}

	v, err := ParseNumber(numPart)
	if err != nil {
		return CarbonInput{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	if !IsRecognizedUnit(unitPart) {
		return CarbonInput{}, fmt.Errorf("%w: %q", ErrInvalidUnit, unitPart)
	}
	return CarbonInput{Value: v, Unit: unitPart}, nil
}

// ParseNumber reads a decimal number typed by a user. Surrounding space and
// comma thousand separators are ignored; any other trailing text, NaN and
// infinities are errors.
func ParseNumber(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumber)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}
