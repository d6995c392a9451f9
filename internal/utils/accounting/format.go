package accounting

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatWithPrecision rounds amount to precision places and groups the integer part in thousands.
// Example: 1234567.891 with precision 2 returns "1,234,567.89"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	s := amount.StringFixed(int32(precision))

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return sign + b.String()
}
