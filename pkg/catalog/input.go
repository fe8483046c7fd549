package catalog

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// RecordInput carries user-supplied fields. A nil field is "not provided":
// Create applies defaults, Update keeps the current value.
type RecordInput struct {
	Title       *string
	Description *string
	Price       *string
	Tag         *string
	Image       *string
}

// Text returns a pointer to s for building a RecordInput.
func Text(s string) *string { return &s }

// ParsePrice reads a decimal price. Blank, malformed, negative or
// non-finite input is 0; the result is rounded to cents.
func ParsePrice(raw string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return 0
	}
	price := d.Round(2).InexactFloat64()
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return 0
	}
	return price
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
