package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount with comma thousand separators and at most
// two decimals, dropping trailing zeros: 12500 -> "12,500", 99.5 -> "99.5".
func FormatAmount(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	s := amount.Round(2).String()
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := sign + formatThousand(intPart)
	if frac != "" {
		out += "." + frac
	}
	return out
}

// FormatNaira prefixes FormatAmount with the naira sign.
func FormatNaira(amount decimal.Decimal) string {
	return "₦" + FormatAmount(amount)
}

func formatThousand(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var out strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
