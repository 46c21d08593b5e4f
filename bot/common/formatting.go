package common

import (
	"fmt"
)

// FormatBalance renders a cent amount with fixed two decimals for balance
// displays: 110 -> "1.10"
func FormatBalance(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
