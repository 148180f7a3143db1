package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// HotelRepo provides read access to hotels and the manager-ownership
// lookup used to authorize hotel_manager actions.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a new HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// List returns all hotels ordered by name.
func (r *HotelRepo) List(ctx context.Context) ([]model.Hotel, error) {
	const q = `SELECT id, name, city, address, stars, created_at, updated_at FROM hotels ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Stars, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a single hotel.  Returns ErrHotelNotFound when no hotel
// with the given ID exists.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT id, name, city, address, stars, created_at, updated_at FROM hotels WHERE id = ? LIMIT 1`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Stars, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ManagerOwnsHotel reports whether the given user is linked to the hotel
// through the hotel_managers table.  Admins bypass this check entirely
// at the handler layer.
func (r *HotelRepo) ManagerOwnsHotel(ctx context.Context, managerUserID, hotelID uint64) (bool, error) {
	const q = `SELECT 1 FROM hotel_managers WHERE user_id = ? AND hotel_id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, managerUserID, hotelID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
