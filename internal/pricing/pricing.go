// Package pricing computes line totals for cart and order lines.
package pricing

import "github.com/shopspring/decimal"

// LineTotal computes the total for one line: (base + sum of extras) * quantity.
// Removals never affect the price. The result keeps full precision; rounding
// for display is up to the caller.
func LineTotal(base decimal.Decimal, extras []decimal.Decimal, quantity int) decimal.Decimal {
	unit := base
	for _, extra := range extras {
		unit = unit.Add(extra)
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}
