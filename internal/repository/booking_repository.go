package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// activeStatuses is the SQL fragment naming every status that still
// holds a room.  A booking only stops blocking its date range once it is
// cancelled.
const activeStatuses = `'pending','confirmed','completed'`

// BookingRepo provides data access to the bookings table: availability
// predicates, transactional creation, status updates and the bulk expiry
// operation used by the TTL reaper.  All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying pool so handlers can open transactions that
// span the availability check and the insert.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// IsRoomAvailableTx reports whether no active booking for the room
// overlaps [checkIn, checkOut).  Two ranges overlap iff a < d AND c < b
// (half-open semantics): a booking ending on day X leaves day X free for
// a new check-in.  The check runs inside the caller's transaction so it
// is read-consistent with the insert that follows it.
func (r *BookingRepo) IsRoomAvailableTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	const q = `SELECT 1 FROM bookings b
	            WHERE b.room_id = ?
	              AND b.status IN (` + activeStatuses + `)
	              AND (? < b.check_out AND ? > b.check_in)
	            LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, roomID, checkIn, checkOut).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// HasOverlap is the same predicate as IsRoomAvailableTx with inverted
// polarity, used when re-validating a transition into confirmed.  When
// excludeBookingID is non-zero the booking being transitioned is left
// out of the check so it does not conflict with itself.
func (r *BookingRepo) HasOverlap(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (bool, error) {
	q := `SELECT 1 FROM bookings b
	       WHERE b.room_id = ?
	         AND b.status IN (` + activeStatuses + `)
	         AND (? < b.check_out AND ? > b.check_in)`
	args := []interface{}{roomID, checkIn, checkOut}
	if excludeBookingID != 0 {
		q += ` AND b.id <> ?`
		args = append(args, excludeBookingID)
	}
	q += ` LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts a new pending booking within the caller's transaction
// and populates the generated ID and database-assigned timestamps on the
// provided model.  The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const ins = `INSERT INTO bookings (user_id, room_id, check_in, check_out, total_price, status)
	             VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, b.UserID, b.RoomID, b.CheckIn, b.CheckOut, b.TotalPrice.StringFixed(2), string(b.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the row to pick up created_at/updated_at defaults.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID loads a single booking row.  It returns ErrBookingNotFound
// when no booking with the given ID exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, room_id, check_in, check_out, total_price, status, created_at, updated_at
	           FROM bookings WHERE id = ? LIMIT 1`
	var b model.Booking
	var status string
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.CheckIn, &b.CheckOut, &total, &status, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	b.TotalPrice = total
	b.Status = booking.Status(status)
	return &b, nil
}

// UpdateStatus persists a new status for the booking, guarded by the
// status the caller loaded.  Legality of the transition is the caller's
// responsibility; the WHERE clause makes the write a compare-and-swap so
// a row that moved on concurrently (the TTL sweep's bulk cancel, a
// competing request) is never overwritten.  Zero matched rows returns
// ErrConflict: the caller's view of the booking is stale.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to booking.Status) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ExpireStalePending bulk-cancels every pending booking older than
// ttlMinutes in a single statement and returns the number of rows
// changed.  The reaper calls this directly: the only legal destination
// from stale pending is cancelled, and a cancellation needs no overlap
// re-check, so the per-booking transition path is deliberately bypassed.
func (r *BookingRepo) ExpireStalePending(ctx context.Context, ttlMinutes int) (int64, error) {
	const q = `UPDATE bookings SET status = 'cancelled'
	           WHERE status = 'pending' AND created_at < (UTC_TIMESTAMP() - INTERVAL ? MINUTE)`
	res, err := r.db.ExecContext(ctx, q, ttlMinutes)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// HotelIDByBookingID resolves the hotel owning the booked room, used for
// manager ownership checks.  Returns ErrBookingNotFound when the booking
// does not exist.
func (r *BookingRepo) HotelIDByBookingID(ctx context.Context, bookingID uint64) (uint64, error) {
	const q = `SELECT ro.hotel_id
	           FROM bookings b JOIN rooms ro ON ro.id = b.room_id
	           WHERE b.id = ? LIMIT 1`
	var hotelID uint64
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&hotelID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrBookingNotFound
	}
	if err != nil {
		return 0, err
	}
	return hotelID, nil
}

// BookingDetail is a booking enriched with denormalized room and hotel
// display fields for customer and manager listings.
type BookingDetail struct {
	ID         uint64          `json:"id"`
	UserID     uint64          `json:"user_id"`
	RoomID     uint64          `json:"room_id"`
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	Nights     int64           `json:"nights"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     booking.Status  `json:"status"`
	RoomName   string          `json:"room_name"`
	RoomType   string          `json:"room_type"`
	HotelID    uint64          `json:"hotel_id"`
	HotelName  string          `json:"hotel_name"`
	CreatedAt  string          `json:"created_at"`
}

const detailColumns = `b.id, b.user_id, b.room_id, b.check_in, b.check_out, b.total_price, b.status, b.created_at,
	                  ro.name, ro.room_type, h.id, h.name`

const detailJoins = ` FROM bookings b
	           JOIN rooms ro ON ro.id = b.room_id
	           JOIN hotels h ON h.id = ro.hotel_id`

// scanDetail reads one joined row into a BookingDetail, formatting dates
// and deriving the nights count from the stored range.
func scanDetail(row interface{ Scan(...interface{}) error }) (*BookingDetail, error) {
	var d BookingDetail
	var checkIn, checkOut, createdAt time.Time
	var status string
	if err := row.Scan(
		&d.ID, &d.UserID, &d.RoomID, &checkIn, &checkOut, &d.TotalPrice, &status, &createdAt,
		&d.RoomName, &d.RoomType, &d.HotelID, &d.HotelName,
	); err != nil {
		return nil, err
	}
	d.CheckIn = booking.FormatDate(checkIn)
	d.CheckOut = booking.FormatDate(checkOut)
	d.Nights = booking.Nights(checkIn, checkOut)
	d.Status = booking.Status(status)
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &d, nil
}

// DetailByID loads a single booking with its room and hotel display
// fields.  Returns ErrBookingNotFound when no row matches.
func (r *BookingRepo) DetailByID(ctx context.Context, id uint64) (*BookingDetail, error) {
	const q = `SELECT ` + detailColumns + detailJoins + ` WHERE b.id = ?`
	d, err := scanDetail(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListByUser returns all bookings made by the given user, newest first,
// with denormalized room/hotel fields.  An empty slice is returned when
// the user has no bookings.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT ` + detailColumns + detailJoins + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, userID)
}

// ListByHotel returns all bookings for rooms of the given hotel, newest
// first.  Ownership of the hotel must be verified by the caller.
func (r *BookingRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]BookingDetail, error) {
	const q = `SELECT ` + detailColumns + detailJoins + ` WHERE h.id = ? ORDER BY b.created_at DESC`
	return r.listDetails(ctx, q, hotelID)
}

func (r *BookingRepo) listDetails(ctx context.Context, query string, arg interface{}) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
