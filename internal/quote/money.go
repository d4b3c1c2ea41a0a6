package quote

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as $#,##0.00 for document cells.
// Arithmetic stays on decimal values; this is display only.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatQuantity renders a quantity as a whole number for display.
// Fractional quantities are truncated in the cell, never in the math.
func FormatQuantity(d decimal.Decimal) string {
	return strconv.FormatInt(d.IntPart(), 10)
}
