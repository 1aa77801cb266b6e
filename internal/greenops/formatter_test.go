package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{123, "123"},
		{1234, "1,234"},
		{18248, "18,248"},
		{1234567890, "1,234,567,890"},
		{0, "0"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.n))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		f         float64
		precision int
		want      string
	}{
		{name: "round to integer", f: 18248.56, precision: 0, want: "18,249"},
		{name: "one decimal place", f: 781.25, precision: 1, want: "781.3"},
		{name: "two decimal places", f: 1234.5678, precision: 2, want: "1,234.57"},
		{name: "small number", f: 0.5, precision: 1, want: "0.5"},
		{name: "zero", f: 0.0, precision: 2, want: "0.00"},
		{name: "negative with precision", f: -1234.56, precision: 2, want: "-1,234.56"},
		{name: "negative below one", f: -0.25, precision: 2, want: "-0.25"},
		{name: "negative rounds to zero", f: -0.001, precision: 2, want: "0.00"},
		{name: "round up at boundary", f: 999.999, precision: 2, want: "1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.f, tt.precision))
		})
	}
}

func TestFormatLarge(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{999999, "999,999"},
		{1000000, "~1.0 million"},
		{5200000, "~5.2 million"},
		{1500000000, "~1.5 billion"},
		{0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLarge(tt.n))
		})
	}
}

func TestFormatTonnesCurrencyPercent(t *testing.T) {
	assert.Equal(t, "236.14 tCO2e", FormatTonnes(236.14, 2))
	assert.Equal(t, "$10,198", FormatCurrency(10197.6, 0))
	assert.Equal(t, "-$12.00", FormatCurrency(-12, 2))
	assert.Equal(t, "+40.0%", FormatPercent(40))
	assert.Equal(t, "-50.0%", FormatPercent(-50))
	assert.Equal(t, "0.0%", FormatPercent(0))
}

func BenchmarkFormatFloat(b *testing.B) {
	for b.Loop() {
		FormatFloat(1234.5678, 2)
	}
}
