package emissions

// percent converts a ratio to a percentage.
const percent = 100

// OffsetCost prices an offset purchase: amount (tonnes) times the unit price.
// Negative amounts yield negative costs.
func OffsetCost(amount, pricePerUnit float64) float64 {
	return amount * pricePerUnit
}

// ReductionPercentage returns how far current sits below baseline, as a
// percentage of baseline. Positive means a reduction, negative an increase.
// A zero baseline returns 0.
func ReductionPercentage(baseline, current float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - current) / baseline * percent
}

// Labels for the sign of a reduction percentage.
const (
	LabelReduction = "reduction"
	LabelIncrease  = "increase"
	LabelNoChange  = "no change"
)

// ReductionLabel names the direction of a ReductionPercentage value.
func ReductionLabel(pct float64) string {
	switch {
	case pct > 0:
		return LabelReduction
	case pct < 0:
		return LabelIncrease
	default:
		return LabelNoChange
	}
}

// SharePercent returns part as a percentage of total, or 0 for a zero total.
func SharePercent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * percent
}
