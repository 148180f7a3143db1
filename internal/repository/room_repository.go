package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// RoomRepo provides CRUD operations for rooms.  Rooms belong to hotels;
// manager authorization is resolved through HotelRepo before mutating
// methods are called.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// GetByID loads a single room.  It returns ErrRoomNotFound when no room
// with the given ID exists.  The nightly price read here is what a new
// booking's total is frozen from.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, hotel_id, name, room_type, capacity, price_per_night, is_active, created_at, updated_at
	           FROM rooms WHERE id = ? LIMIT 1`
	var m model.Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.HotelID, &m.Name, &m.RoomType, &m.Capacity, &m.PricePerNight, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByHotel returns the rooms of a hotel ordered by name.  When
// onlyActive is true, inactive rooms are filtered out (public browsing);
// managers see everything.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64, onlyActive bool) ([]model.Room, error) {
	q := `SELECT id, hotel_id, name, room_type, capacity, price_per_night, is_active, created_at, updated_at
	      FROM rooms WHERE hotel_id = ?`
	if onlyActive {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var m model.Room
		if err := rows.Scan(&m.ID, &m.HotelID, &m.Name, &m.RoomType, &m.Capacity, &m.PricePerNight, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new room and populates the generated ID and
// timestamps on the provided model.
func (r *RoomRepo) Create(ctx context.Context, m *model.Room) error {
	const ins = `INSERT INTO rooms (hotel_id, name, room_type, capacity, price_per_night, is_active)
	             VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, ins, m.HotelID, m.Name, m.RoomType, m.Capacity, m.PricePerNight.StringFixed(2), m.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// Update overwrites the mutable fields of a room.  Existing bookings are
// unaffected by price changes: totals were frozen at creation.  Returns
// ErrRoomNotFound when the room does not exist.
func (r *RoomRepo) Update(ctx context.Context, m *model.Room) error {
	const q = `UPDATE rooms SET name = ?, room_type = ?, capacity = ?, price_per_night = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.RoomType, m.Capacity, m.PricePerNight.StringFixed(2), m.IsActive, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also zero for a no-change update; confirm the
		// room really is missing before reporting not found.
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a room.  Rooms with bookings that still hold the room
// (pending, confirmed or completed) cannot be deleted; ErrConflict is
// returned instead so callers answer 409.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	const chk = `SELECT 1 FROM bookings WHERE room_id = ? AND status IN (` + activeStatuses + `) LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, chk, id).Scan(&one)
	switch {
	case err == nil:
		return ErrConflict
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}
	const del = `DELETE FROM rooms WHERE id = ?`
	res, err := r.db.ExecContext(ctx, del, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// HotelIDByRoomID resolves the hotel a room belongs to for ownership
// checks.  Returns ErrRoomNotFound when the room does not exist.
func (r *RoomRepo) HotelIDByRoomID(ctx context.Context, roomID uint64) (uint64, error) {
	const q = `SELECT hotel_id FROM rooms WHERE id = ? LIMIT 1`
	var hotelID uint64
	err := r.db.QueryRowContext(ctx, q, roomID).Scan(&hotelID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRoomNotFound
	}
	if err != nil {
		return 0, err
	}
	return hotelID, nil
}
