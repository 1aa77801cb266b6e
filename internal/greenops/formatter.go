package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f to precision decimals (half away from zero) and
// formats it with thousand separators.
// Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if precision < 0 {
		precision = 0
	}

	const base = 10
	multiplier := math.Pow(base, float64(precision))
	rounded := math.Round(math.Abs(f)*multiplier) / multiplier

	sign := ""
	if f < 0 && rounded != 0 {
		sign = "-"
	}

	digits := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, fracPart, hasFrac := strings.Cut(digits, ".")

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Beyond int64: fall back to ungrouped digits.
		return sign + digits
	}

	grouped := printer.Sprintf("%d", whole)
	if hasFrac {
		return sign + grouped + "." + fracPart
	}
	return sign + grouped
}

// FormatLarge formats large numbers with abbreviated notation.
//
// Values below LargeNumberThreshold use comma-separated integers; values at or
// above it read "~X.X million", and at or above BillionThreshold "~X.X billion".
func FormatLarge(n float64) string {
	if n >= BillionThreshold {
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	}
	if n >= LargeNumberThreshold {
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	}
	return FormatNumber(int64(math.Round(n)))
}

// FormatTonnes formats an emissions value, e.g. "236.14 tCO2e".
func FormatTonnes(t float64, precision int) string {
	return FormatFloat(t, precision) + " " + TonnesUnit
}

// FormatCurrency formats a monetary amount as "$1,234.50" or "-$12.00".
func FormatCurrency(amount float64, precision int) string {
	s := FormatFloat(amount, precision)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "-$" + rest
	}
	return "$" + s
}

// FormatPercent formats a signed percentage with one decimal, e.g. "+12.5%".
// Zero is rendered without a sign.
func FormatPercent(pct float64) string {
	s := FormatFloat(pct, 1)
	if pct > 0 && s != "0.0" {
		return "+" + s + "%"
	}
	return s + "%"
}
