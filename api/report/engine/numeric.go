package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumeric coerces a stored cell value into a float64. Values arrive as
// user-typed strings and may carry locale separators: "1 234,56",
// "1.234,56", "1,234.56", "42". The rules:
//   - spaces, non-breaking spaces and apostrophes are grouping noise
//   - when both '.' and ',' appear, the right-most one is the decimal mark
//   - a single ',' is a decimal mark; repeated ',' or '.' are grouping
//
// Unparsable input reports ok=false and is treated as an absent value by
// every caller, never as zero.
func ParseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "'", "").Replace(s)

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}
