// Package format renders monetary amounts, percentages and multiples for display.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is the currency symbol used by Currency.
const DefaultSymbol = "$"

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	return CurrencyWithSymbol(amount, DefaultSymbol)
}

// CurrencyWithSymbol is Currency with a caller-chosen symbol (e.g., "Rp").
func CurrencyWithSymbol(amount float64, symbol string) string {
	d := decimal.NewFromFloat(amount)
	if d.IsNegative() && !d.Round(2).IsZero() {
		return "-" + symbol + formatPositiveCurrency(d.Abs())
	}
	return symbol + formatPositiveCurrency(d.Abs())
}

// Percent renders a value already expressed in percent (e.g., "12.35%").
func Percent(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2) + "%"
}

// Multiple renders a ratio as a multiple (e.g., "2.50x").
func Multiple(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2) + "x"
}

// Days renders a day count with one decimal (e.g., "138.1 days").
func Days(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(1) + " days"
}

func formatPositiveCurrency(value decimal.Decimal) string {
	formatted := value.StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
