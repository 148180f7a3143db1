package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nights returns the number of nights between check-in and check-out as
// a calendar-day difference, floored at 1.  Upstream validation rejects
// reversed ranges before they reach pricing, but a zero or negative
// difference is clamped rather than rejected so the total can never be
// priced at zero nights.
func Nights(checkIn, checkOut time.Time) int64 {
	n := int64(checkOut.Sub(checkIn).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// Total computes nights × pricePerNight rounded to two decimal places.
// The result is frozen into the booking row at creation time; later
// changes to the room's nightly price do not touch existing bookings.
func Total(pricePerNight decimal.Decimal, nights int64) decimal.Decimal {
	return pricePerNight.Mul(decimal.NewFromInt(nights)).Round(2)
}
