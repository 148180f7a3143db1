// Package booking contains the pure core of the reservation domain: the
// booking status enumeration and its transition matrix, calendar-date
// helpers with half-open overlap semantics, and the pricing rules used
// when a booking is created.  Nothing in this package touches the
// database; repositories and handlers build on top of it.
package booking

import "fmt"

// Status is the closed set of booking lifecycle states.  It is stored in
// the bookings.status ENUM column and must never be compared against raw
// request strings directly; use ParseStatus at the edge.
type Status string

const (
	StatusPending   Status = "pending"   // initial state, holds the room until confirmed or expired
	StatusConfirmed Status = "confirmed" // approved by manager/admin or payment signal
	StatusCompleted Status = "completed" // stay finished; terminal
	StatusCancelled Status = "cancelled" // released the room; terminal
)

// ParseStatus validates a raw string against the closed enumeration.  It
// returns an error for unknown values so handlers can answer 400 before
// touching the database.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(raw), nil
	}
	return "", fmt.Errorf("unknown booking status %q", raw)
}

// IsActive reports whether a booking in this status still holds its room.
// Active bookings participate in overlap checks; cancelled ones do not.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

// IsTerminal reports whether no further transition is permitted out of
// this status.  Note that cancelled→cancelled is still accepted as an
// idempotent no-op by CanTransition.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition is the single source of truth for the booking state
// machine.  Re-asserting the current status of a non-terminal booking is
// allowed and treated as a no-op by callers; completed is fully
// immutable, and cancelling an already cancelled booking succeeds
// silently.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusPending || to == StatusConfirmed || to == StatusCompleted || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusConfirmed || to == StatusCompleted || to == StatusCancelled
	case StatusCompleted:
		return false
	case StatusCancelled:
		return to == StatusCancelled
	}
	return false
}
