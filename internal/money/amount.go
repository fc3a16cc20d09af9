package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount reads a locale-formatted amount such as "1.234,56", "1234.56"
// or "R$ 1.500". When a comma is present it is the decimal separator and
// dots are thousands separators. Without a comma, dots are treated as
// thousands separators only when every group after the first has exactly
// three digits.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			return r
		}

		return -1
	}, s)

	if clean == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	} else if isThousandsGrouped(clean) {
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}

	return d, nil
}

func isThousandsGrouped(s string) bool {
	parts := strings.Split(strings.TrimPrefix(s, "-"), ".")
	if len(parts) < 2 || parts[0] == "" || len(parts[0]) > 3 {
		return false
	}

	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}

	return true
}

// FormatDecimalComma renders d with two decimals and a comma separator,
// the way spreadsheet users in pt-BR expect it.
func FormatDecimalComma(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
