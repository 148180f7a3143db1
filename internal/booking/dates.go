package booking

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for check-in/check-out values.  Bookings
// deal in calendar dates only; the time component is always midnight UTC.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a date-only time.Time in UTC.
// Any time component or deviating format is rejected.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return t.UTC(), nil
}

// FormatDate renders a date-only value back to YYYY-MM-DD for responses
// and event payloads.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) share at least one night: aStart < bEnd AND bStart < aEnd.
// A booking checking out on day X never conflicts with one checking in on
// day X; the checkout day is free for a new arrival.  Callers must
// ensure start < end for each range; Overlaps does not reorder.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
