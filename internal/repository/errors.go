// Package repository implements the persistence boundary over MySQL.
// This file defines sentinel error values shared across repositories so
// handlers can translate failures into HTTP codes with errors.Is instead
// of inspecting SQL errors directly.
package repository

import "errors"

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state: an overlapping active booking, an illegal status
// transition, or deleting a room that still has active bookings.
// Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrRoomNotFound is returned when a room lookup matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrHotelNotFound is returned when a hotel lookup matches no row.
var ErrHotelNotFound = errors.New("hotel not found")
