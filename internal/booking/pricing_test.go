package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	assert.Equal(t, int64(4), Nights(date(t, "2026-07-01"), date(t, "2026-07-05")))
	assert.Equal(t, int64(1), Nights(date(t, "2026-07-01"), date(t, "2026-07-02")))
	// Degenerate inputs are floored at one night.
	assert.Equal(t, int64(1), Nights(date(t, "2026-07-01"), date(t, "2026-07-01")))
	assert.Equal(t, int64(1), Nights(date(t, "2026-07-05"), date(t, "2026-07-01")))
}

func TestTotal(t *testing.T) {
	price := decimal.RequireFromString("120.50")
	assert.Equal(t, "482.00", Total(price, 4).StringFixed(2))
	assert.Equal(t, "120.50", Total(price, 1).StringFixed(2))

	// Rounds to two decimal places.
	odd := decimal.RequireFromString("33.333")
	assert.Equal(t, "99.99", Total(odd, 3).StringFixed(2))
}

func TestTotalIsExactDecimalArithmetic(t *testing.T) {
	// 0.1 * 3 must be exactly 0.30, not a float approximation.
	assert.Equal(t, "0.30", Total(decimal.RequireFromString("0.10"), 3).StringFixed(2))
}
