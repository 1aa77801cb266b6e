package greenops

import (
	"fmt"
	"math"
	"strings"
)

// equivalencySpec describes one equivalency: its EPA divisor and labels.
type equivalencySpec struct {
	kind    EquivalencyType
	factor  float64
	label   string
	compact string
}

//nolint:gochecknoglobals // Fixed EPA formula table in display priority order.
var equivalencySpecs = []equivalencySpec{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven", "mi"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged", "phones"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years", "seedlings"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity", "home-days"},
}

// Calculate normalizes input to kilograms and expresses it as EPA
// equivalencies.
//
// Normalization errors are returned with an empty output. Inputs below
// MinEquivalencyThresholdKg give an empty output carrying InputKg and no
// error. Non-finite intermediate results return ErrCalculationOverflow.
func Calculate(input CarbonInput) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	return fromKg(kg)
}

// FromTonnes expresses an emissions total in tonnes CO2e as equivalencies.
func FromTonnes(tonnes float64) (EquivalencyOutput, error) {
	return Calculate(CarbonInput{Value: tonnes, Unit: "t"})
}

func fromKg(kg float64) (EquivalencyOutput, error) {
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	results := make([]EquivalencyResult, 0, len(equivalencySpecs))
	for _, spec := range equivalencySpecs {
		v := kg / spec.factor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
		results = append(results, EquivalencyResult{
			Type:           spec.kind,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          spec.label,
		})
	}

	miles, phones := results[0].FormattedValue, results[1].FormattedValue
	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", miles, phones),
		CompactText: fmt.Sprintf("(≈ %s %s, %s %s)", miles, equivalencySpecs[0].compact, phones, equivalencySpecs[1].compact),
		IsEmpty:     false,
	}, nil
}

// formatEquivalencyValue scales values of a million or more and rounds
// everything else to a comma-separated integer.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		// Display text already carries the "~" marker.
		return strings.TrimPrefix(FormatLarge(v), "~")
	}
	return FormatNumber(int64(math.Round(v)))
}
