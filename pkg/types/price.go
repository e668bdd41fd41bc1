package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Catalog prices travel as display strings ("₹1,299"). The stored shape is
// the display shape; arithmetic happens on the parsed value.
var priceStripper = strings.NewReplacer("₹", "", ",", "", " ", "")

// ParsePrice converts a currency-formatted display string into a decimal amount.
func ParsePrice(display string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(priceStripper.Replace(display))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price string")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q: %w", display, err)
	}
	return amount, nil
}

// FormatPrice renders a decimal amount in the catalog's display shape.
func FormatPrice(amount decimal.Decimal) string {
	whole := amount.IntPart()
	frac := amount.Sub(decimal.NewFromInt(whole))

	grouped := groupThousands(whole)
	if frac.IsZero() {
		return "₹" + grouped
	}
	fracDigits := strings.TrimPrefix(frac.StringFixed(2), "0.")
	return "₹" + grouped + "." + fracDigits
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	// Indian digit grouping: last three digits, then pairs.
	if len(s) > 3 {
		head := s[:len(s)-3]
		tail := s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		s = strings.Join(append(parts, tail), ",")
	}
	if neg {
		return "-" + s
	}
	return s
}
