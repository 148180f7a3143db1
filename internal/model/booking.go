package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-booking/internal/booking"
)

// Booking records a customer's reservation of a room for a date range.
// It is the central entity of the platform: its status field drives the
// lifecycle (pending → confirmed → completed, with cancellation from the
// non-terminal states) and its date range participates in the overlap
// invariant.  Rows are never deleted in normal operation: cancellation
// is a status transition.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – customer who made the booking (referenced, not owned).
//  RoomID     – room being reserved (referenced, not owned).
//  CheckIn    – arrival date (date only, midnight UTC).
//  CheckOut   – departure date; always after CheckIn.
//  TotalPrice – nights × nightly price at creation time; never recomputed.
//  Status     – current lifecycle state.
//  CreatedAt  – creation timestamp; the TTL reaper's reference point.
//  UpdatedAt  – timestamp of last status change.
type Booking struct {
	ID         uint64          // bookings.id
	UserID     uint64          // bookings.user_id
	RoomID     uint64          // bookings.room_id
	CheckIn    time.Time       // bookings.check_in (DATE)
	CheckOut   time.Time       // bookings.check_out (DATE)
	TotalPrice decimal.Decimal // bookings.total_price (DECIMAL(10,2))
	Status     booking.Status  // bookings.status (ENUM)
	CreatedAt  time.Time       // bookings.created_at
	UpdatedAt  time.Time       // bookings.updated_at
}

// AuditLog is an append-only record of a privileged action, such as a
// manager cancelling or completing a booking.  Metadata carries a small
// JSON document (for booking transitions: the prior status).
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – actor who performed the action; nil for system actions.
//  Action     – short verb like "booking.cancel".
//  TargetType – kind of entity acted on (e.g. "booking").
//  TargetID   – identifier of the target, stored as text.
//  Metadata   – optional JSON payload.
//  CreatedAt  – timestamp of the action.
type AuditLog struct {
	ID         uint64    // audit_logs.id
	UserID     *uint64   // audit_logs.user_id (nullable)
	Action     string    // audit_logs.action
	TargetType string    // audit_logs.target_type
	TargetID   string    // audit_logs.target_id
	Metadata   *string   // audit_logs.metadata (nullable JSON)
	CreatedAt  time.Time // audit_logs.created_at
}
