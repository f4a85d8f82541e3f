package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah formats an amount in Indonesian Rupiah notation.
// Example: 15000.50 -> "Rp 15.000,50", 77700 -> "Rp 77.700"
func FormatRupiah(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	integerPart, fraction := parts[0], parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	result := "Rp " + sign + strings.Join(groups, ".")
	if fraction != "00" {
		result += "," + fraction
	}
	return result
}
