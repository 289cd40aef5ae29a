package catalog

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"storefront-service/internal/models"
)

var ErrInvalidDiscount = errors.New("discount must be a non-negative number")

// ParseStock reads a stock count the lenient way admin forms submit it: the
// leading integer of the trimmed input is used ("12 units" is 12, "3.7" is 3),
// input without one is 0, and negative counts clamp to 0.
func ParseStock(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Only overflow is possible here
		if s[0] == '-' {
			return 0
		}
		return math.MaxInt32
	}
	if n < 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// StockFrom coerces an optional form value. A missing or null stock is 0.
func StockFrom(v models.FlexString) int {
	if !v.Set || v.Null {
		return 0
	}
	return ParseStock(v.Value)
}

// ParseDiscount turns a form value into a nullable discount rounded to two
// decimal places. Empty input and JSON null clear the discount.
func ParseDiscount(v models.FlexString) (decimal.NullDecimal, error) {
	if !v.Set || v.Null || strings.TrimSpace(v.Value) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.Value))
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}, ErrInvalidDiscount
	}
	return decimal.NullDecimal{Decimal: d.Round(2), Valid: true}, nil
}
