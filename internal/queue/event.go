// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingEvent is published on every booking lifecycle change: creation
// and each status transition.  It carries enough denormalized context
// for downstream consumers to log, notify, or feed analytics without
// querying the primary database.  PreviousStatus is empty for creation
// events.
type BookingEvent struct {
	BookingID      uint64 `json:"booking_id"`
	UserID         uint64 `json:"user_id"`
	RoomID         uint64 `json:"room_id"`
	HotelID        uint64 `json:"hotel_id"`
	HotelName      string `json:"hotel_name"`
	RoomName       string `json:"room_name"`
	CheckIn        string `json:"check_in"`
	CheckOut       string `json:"check_out"`
	TotalPrice     string `json:"total_price"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}
