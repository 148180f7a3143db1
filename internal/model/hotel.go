package model

import "time"

// Hotel groups rooms under a single property.  Managers are linked to
// hotels through the hotel_managers table; a manager may only act on
// bookings and rooms of hotels they are linked to.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the property.
//  City      – city used for search and display.
//  Address   – street address.
//  Stars     – star rating (1–5).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Hotel struct {
	ID        uint64    // hotels.id
	Name      string    // hotels.name
	City      string    // hotels.city
	Address   string    // hotels.address
	Stars     uint8     // hotels.stars
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}
