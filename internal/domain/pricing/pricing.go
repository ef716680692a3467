// Package pricing computes cart totals in integer minor currency units.
// The same function backs both the live cart preview and the checkout
// snapshot, so previewed and charged totals cannot diverge.
package pricing

import "github.com/shopspring/decimal"

// Item is one cart line for pricing purposes. UnitPrice is in minor
// currency units (cents).
type Item struct {
	ProductID string
	UnitPrice int64
	Quantity  int
}

// Quote is the result of pricing a cart.
type Quote struct {
	Subtotal int64
	Discount int64
	Total    int64
}

// Price computes subtotal, discount, and total for the given items.
// When applyDiscount is true, discountPercentage (0-100) is applied to the
// subtotal with half-up rounding; otherwise total equals subtotal.
// Pure and deterministic, no side effects.
func Price(items []Item, discountPercentage int, applyDiscount bool) Quote {
	var subtotal int64
	for _, it := range items {
		subtotal += it.UnitPrice * int64(it.Quantity)
	}

	q := Quote{Subtotal: subtotal, Total: subtotal}
	if applyDiscount && discountPercentage > 0 {
		q.Discount = roundPercent(subtotal, discountPercentage)
		q.Total = subtotal - q.Discount
	}
	return q
}

// roundPercent returns round(amount * pct / 100) with half-up rounding,
// computed entirely in integers.
func roundPercent(amount int64, pct int) int64 {
	return (amount*int64(pct) + 50) / 100
}

// MajorUnits converts an amount in minor units to a two-decimal major-unit
// value (cents to dollars).
func MajorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
