package service

import (
	"fmt"
)

// FormatAmount renders a cent amount the way ledger descriptions show it:
// whole dollars without decimals, tenths with one digit, anything else
// with two. 100 -> "1", 10 -> "0.1", 25 -> "0.25".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	switch {
	case frac == 0:
		return fmt.Sprintf("%s%d", sign, whole)
	case frac%10 == 0:
		return fmt.Sprintf("%s%d.%d", sign, whole, frac/10)
	default:
		return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
	}
}
