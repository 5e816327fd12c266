// Package utils provides shared formatting and retry helpers.
package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupees formats an amount in Indian currency format (lakhs, crores).
func FormatRupees(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	if negative {
		amount = amount.Neg()
	}

	str := amount.StringFixed(2)
	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	result := "₹" + formatIndianNumber(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatRupeesFloat formats a float amount in Indian currency format.
func FormatRupeesFloat(amount float64) string {
	return FormatRupees(decimal.NewFromFloat(amount))
}

// formatIndianNumber formats an integer string in the Indian numbering
// system: last group of three, then groups of two.
func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	rest := s[:n-3]
	for len(rest) > 2 {
		result = rest[len(rest)-2:] + "," + result
		rest = rest[:len(rest)-2]
	}
	return rest + "," + result
}

// FormatPnL formats a profit/loss amount with an explicit sign.
func FormatPnL(pnl decimal.Decimal) string {
	formatted := FormatRupees(pnl)
	if pnl.IsPositive() {
		return "+" + formatted
	}
	return formatted
}

// FormatQuantity formats a quantity with Indian digit grouping.
func FormatQuantity(qty int64) string {
	return formatIndianNumber(fmt.Sprintf("%d", qty))
}
