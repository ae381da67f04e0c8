package bankparser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, ok := ParseDate("15/01/2024")
	require.True(t, ok)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.January, date.Month())
	assert.Equal(t, 15, date.Day())
	assert.Equal(t, 0, date.Hour())

	date, ok = ParseDate(" 5/3/2023 ")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC), date)
}

func TestParseDate_Rejects(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"not/a/date",
		"15/2024",
		"15-01-2024",
		"15/01/2024/1",
		"31/02/2024",
		"15/13/2024",
		"00/01/2024",
		"15/01/24",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, ok := ParseDate(input)
			assert.False(t, ok)
		})
	}
}

// A year followed by anything else is not a date, even when the first four
// characters are digits.
func TestParseDate_RejectsTrailingText(t *testing.T) {
	for _, input := range []string{"15/01/2024abc", "15/01/2024 abc", "15/01/20245"} {
		_, ok := ParseDate(input)
		assert.False(t, ok, input)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,234.56 GEL", "1234.56"},
		{"(150.00)", "-150.00"},
		{"(-150.00)", "-150.00"},
		{"", "0"},
		{"garbage", "0"},
		{"12,50", "12.50"},
		{"1.234,56", "1234.56"},
		{"1,234,567", "1234567"},
		{"-45.10", "-45.10"},
		{"₾ 99.99", "99.99"},
		{"  42  ", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseAmount(tt.input)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(got), "ParseAmount(%q) = %s, want %s", tt.input, got, want)
		})
	}
}

func TestRoundAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"12.345", "12.35"},
		{"12.344", "12.34"},
		{"-12.345", "-12.35"},
		{"1.234", "1.23"},
		{"7", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := RoundAmount(decimal.RequireFromString(tt.input))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}

	assert.False(t, RoundNullAmount(decimal.NullDecimal{}).Valid)
}

func TestCellAmount(t *testing.T) {
	assert.False(t, cellAmount("").Valid)
	assert.False(t, cellAmount("   ").Valid)

	zero := cellAmount("0.00")
	require.True(t, zero.Valid)
	assert.True(t, zero.Decimal.IsZero())

	amount := cellAmount("1,000.005")
	require.True(t, amount.Valid)
	assert.True(t, decimal.RequireFromString("1000.01").Equal(amount.Decimal))
}
