package repository

import (
	"context"
	"testing"
	"time"

	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

func newMockRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := booking.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestIsRoomAvailableTx(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	in := mustDate(t, "2026-07-01")
	out := mustDate(t, "2026-07-05")

	// Free room: the overlap probe finds no row.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM bookings`).
		WithArgs(uint64(7), in, out).
		WillReturnError(sql.ErrNoRows)
	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	free, err := repo.IsRoomAvailableTx(ctx, tx, 7, in, out)
	require.NoError(t, err)
	assert.True(t, free)

	// Occupied room: the probe returns a row.
	mock.ExpectQuery(`SELECT 1 FROM bookings`).
		WithArgs(uint64(7), in, out).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	free, err = repo.IsRoomAvailableTx(ctx, tx, 7, in, out)
	require.NoError(t, err)
	assert.False(t, free)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasOverlap(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	in := mustDate(t, "2026-07-01")
	out := mustDate(t, "2026-07-05")

	mock.ExpectQuery(`SELECT 1 FROM bookings`).
		WithArgs(uint64(7), in, out).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	overlap, err := repo.HasOverlap(ctx, 7, in, out, 0)
	require.NoError(t, err)
	assert.True(t, overlap)

	mock.ExpectQuery(`SELECT 1 FROM bookings`).
		WithArgs(uint64(7), in, out).
		WillReturnError(sql.ErrNoRows)
	overlap, err = repo.HasOverlap(ctx, 7, in, out, 0)
	require.NoError(t, err)
	assert.False(t, overlap)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasOverlapExcludesOwnBooking(t *testing.T) {
	repo, mock := newMockRepo(t)
	in := mustDate(t, "2026-07-01")
	out := mustDate(t, "2026-07-05")

	// With a non-zero exclude id the query carries a fourth argument.
	mock.ExpectQuery(`AND b\.id <> \?`).
		WithArgs(uint64(7), in, out, uint64(42)).
		WillReturnError(sql.ErrNoRows)
	overlap, err := repo.HasOverlap(context.Background(), 7, in, out, 42)
	require.NoError(t, err)
	assert.False(t, overlap)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTx(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	b := &model.Booking{
		UserID:     3,
		RoomID:     7,
		CheckIn:    mustDate(t, "2026-07-01"),
		CheckOut:   mustDate(t, "2026-07-05"),
		TotalPrice: decimal.RequireFromString("482.00"),
		Status:     booking.StatusPending,
	}

	now := time.Now().UTC().Truncate(time.Second)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(b.UserID, b.RoomID, b.CheckIn, b.CheckOut, "482.00", "pending").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`SELECT created_at, updated_at FROM bookings`).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTx(ctx, tx, b))
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint64(11), b.ID)
	assert.Equal(t, now, b.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusGuardedByPriorStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	// The write carries the loaded status in the WHERE clause.
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status = \?`).
		WithArgs("confirmed", uint64(11), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateStatus(ctx, 11, booking.StatusPending, booking.StatusConfirmed))

	// The row moved on between load and write (say the expiry sweep
	// cancelled it): zero rows match and the stale write is refused.
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status = \?`).
		WithArgs("confirmed", uint64(11), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateStatus(ctx, 11, booking.StatusPending, booking.StatusConfirmed)
	assert.ErrorIs(t, err, ErrConflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireStalePending(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status = 'cancelled'`).
		WithArgs(15).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.ExpireStalePending(context.Background(), 15)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, user_id, room_id`).
		WithArgs(uint64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Date(2026, 6, 20, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "room_id", "check_in", "check_out", "total_price", "status", "created_at",
		"name", "room_type", "hotel_id", "hotel_name",
	}).AddRow(
		11, 3, 7, mustDate(t, "2026-07-01"), mustDate(t, "2026-07-05"), "482.00", "pending", created,
		"Sea View 101", "double", 2, "Harbor Hotel",
	)
	mock.ExpectQuery(`WHERE b\.user_id = \?`).WithArgs(uint64(3)).WillReturnRows(rows)

	details, err := repo.ListByUser(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, details, 1)

	d := details[0]
	assert.Equal(t, "2026-07-01", d.CheckIn)
	assert.Equal(t, "2026-07-05", d.CheckOut)
	assert.Equal(t, int64(4), d.Nights)
	assert.Equal(t, booking.StatusPending, d.Status)
	assert.Equal(t, "Harbor Hotel", d.HotelName)
	assert.Equal(t, "482", d.TotalPrice.String())
	assert.Equal(t, created.Format(time.RFC3339), d.CreatedAt)
}
