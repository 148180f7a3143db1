package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room is a bookable unit belonging to a hotel.  The nightly price is
// read at booking-creation time and frozen into the booking row, so
// editing it here never changes the total of an existing booking.
//
// Fields:
//  ID            – primary key identifier.
//  HotelID       – owning hotel.
//  Name          – display name (e.g. "Deluxe 204").
//  RoomType      – free-form category such as "double" or "suite".
//  Capacity      – maximum number of guests.
//  PricePerNight – current nightly rate.
//  IsActive      – inactive rooms are hidden from public browsing.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Room struct {
	ID            uint64          // rooms.id
	HotelID       uint64          // rooms.hotel_id
	Name          string          // rooms.name
	RoomType      string          // rooms.room_type
	Capacity      uint32          // rooms.capacity
	PricePerNight decimal.Decimal // rooms.price_per_night (DECIMAL(10,2))
	IsActive      bool            // rooms.is_active
	CreatedAt     time.Time       // rooms.created_at
	UpdatedAt     time.Time       // rooms.updated_at
}
