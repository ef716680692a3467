package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrice_NoDiscount(t *testing.T) {
	q := Price([]Item{{ProductID: "p1", UnitPrice: 5000, Quantity: 2}}, 0, false)

	assert.Equal(t, int64(10000), q.Subtotal)
	assert.Equal(t, int64(0), q.Discount)
	assert.Equal(t, int64(10000), q.Total)
}

func TestPrice_TenPercent(t *testing.T) {
	q := Price([]Item{{ProductID: "p1", UnitPrice: 5000, Quantity: 2}}, 10, true)

	assert.Equal(t, int64(10000), q.Subtotal)
	assert.Equal(t, int64(1000), q.Discount)
	assert.Equal(t, int64(9000), q.Total)
}

func TestPrice_MultipleLines(t *testing.T) {
	items := []Item{
		{ProductID: "p1", UnitPrice: 1999, Quantity: 3},
		{ProductID: "p2", UnitPrice: 250, Quantity: 1},
	}

	q := Price(items, 0, false)
	assert.Equal(t, int64(6247), q.Subtotal)
	assert.Equal(t, q.Subtotal, q.Total)
}

func TestPrice_RoundsHalfUp(t *testing.T) {
	// 15% of 1050 is 157.5, which rounds to 158.
	q := Price([]Item{{ProductID: "p1", UnitPrice: 1050, Quantity: 1}}, 15, true)

	assert.Equal(t, int64(158), q.Discount)
	assert.Equal(t, int64(892), q.Total)
}

func TestPrice_DiscountFlagOffIgnoresPercentage(t *testing.T) {
	q := Price([]Item{{ProductID: "p1", UnitPrice: 1000, Quantity: 1}}, 50, false)

	assert.Equal(t, int64(0), q.Discount)
	assert.Equal(t, int64(1000), q.Total)
}

func TestPrice_Properties(t *testing.T) {
	items := []Item{
		{ProductID: "p1", UnitPrice: 333, Quantity: 3},
		{ProductID: "p2", UnitPrice: 101, Quantity: 7},
	}

	for pct := 0; pct <= 100; pct++ {
		q := Price(items, pct, true)
		assert.GreaterOrEqual(t, q.Total, int64(0), "pct %d", pct)
		assert.LessOrEqual(t, q.Total, q.Subtotal, "pct %d", pct)
		assert.Equal(t, q.Subtotal, q.Total+q.Discount, "pct %d", pct)
	}
}

func TestPrice_EmptyCart(t *testing.T) {
	q := Price(nil, 10, true)

	assert.Equal(t, int64(0), q.Subtotal)
	assert.Equal(t, int64(0), q.Total)
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, "100", MajorUnits(10000).String())
	assert.Equal(t, "99.99", MajorUnits(9999).String())
	assert.Equal(t, "0.05", MajorUnits(5).String())
}
