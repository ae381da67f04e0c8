package bankparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	nonAmountChars = regexp.MustCompile(`[^\d.,-]`)
	leadingNumber  = regexp.MustCompile(`^-?\d+(\.\d+)?`)
)

// ParseDate parses a D[D]/M[M]/YYYY statement date into a calendar date.
// The result carries no time of day and is anchored at UTC midnight so that
// the year, month and day survive a round trip through a DATE column.
// ok is false for empty input or anything that is not three integer parts.
func ParseDate(s string) (date time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	yearPart := strings.TrimSpace(parts[2])
	if len(yearPart) != 4 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return time.Time{}, false
	}

	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (31/02 becomes 02/03); reject it instead.
	if date.Day() != day || int(date.Month()) != month {
		return time.Time{}, false
	}

	return date, true
}

// ParseAmount turns a free-text money value into a decimal. Currency symbols
// and letters are dropped, thousands separators are removed and a decimal
// comma becomes a dot. A value wrapped in parentheses is negative. Anything
// that does not yield a number is zero.
func ParseAmount(s string) decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero
	}

	cleaned := normalizeSeparators(nonAmountChars.ReplaceAllString(s, ""))
	number := leadingNumber.FindString(cleaned)
	if number == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Zero
	}

	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		return amount.Abs().Neg()
	}
	return amount
}

// AmountScale is the number of fractional digits a stored amount keeps.
const AmountScale = 2

// RoundAmount quantizes an amount to AmountScale, half away from zero, the
// way a NUMERIC(14, 2) column stores it.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// RoundNullAmount is RoundAmount for an optional amount; absent stays absent.
func RoundNullAmount(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(RoundAmount(d.Decimal))
}

// cellAmount parses an optional money cell. A blank cell is absent rather
// than zero.
func cellAmount(s string) decimal.NullDecimal {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(RoundAmount(ParseAmount(s)))
}

// normalizeSeparators keeps at most one decimal separator, rewritten as '.'.
// With both ',' and '.' present the last one is the decimal separator. A
// separator repeated on its own is a thousands separator.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	decimalAt := -1
	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalAt = max(lastComma, lastDot)
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			decimalAt = lastComma
		}
	case lastDot >= 0:
		if strings.Count(s, ".") == 1 {
			decimalAt = lastDot
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ',' || c == '.' {
			if i == decimalAt {
				b.WriteByte('.')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
