package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

func newTestBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewRoomRepo(db),
		repository.NewHotelRepo(db),
		repository.NewAuditRepo(db),
	)
	return h, mock
}

// newContext builds an echo context carrying the identity that JWTAuth
// would normally extract from the bearer token.
func newContext(t *testing.T, method, path, body string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	if role != "" {
		c.Set("role", role)
	}
	return c, rec
}

func bookingRow(status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "user_id", "room_id", "check_in", "check_out", "total_price", "status", "created_at", "updated_at",
	}).AddRow(
		11, 3, 7,
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC),
		"482.00", status, now, now,
	)
}

func TestCreateRejectsMissingIdentity(t *testing.T) {
	h, _ := newTestBookingHandler(t)
	c, rec := newContext(t, http.MethodPost, "/v1/bookings", `{"room_id":7}`, 0, "")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateValidation(t *testing.T) {
	h, _ := newTestBookingHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{}`},
		{"missing dates", `{"room_id":7}`},
		{"malformed check_in", `{"room_id":7,"check_in":"07/01/2026","check_out":"2026-07-05"}`},
		{"malformed check_out", `{"room_id":7,"check_in":"2026-07-01","check_out":"tomorrow"}`},
		{"reversed range", `{"room_id":7,"check_in":"2026-07-05","check_out":"2026-07-01"}`},
		{"zero-night range", `{"room_id":7,"check_in":"2026-07-01","check_out":"2026-07-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(t, http.MethodPost, "/v1/bookings", tc.body, 3, middleware.RoleCustomer)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateStatusRejectsCompletedValue(t *testing.T) {
	h, _ := newTestBookingHandler(t)
	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/status", `{"status":"completed"}`, 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending|confirmed|cancelled")
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	h, _ := newTestBookingHandler(t)
	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/status", `{"status":"expired"}`, 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusCompletedIsImmutable(t *testing.T) {
	h, mock := newTestBookingHandler(t)
	mock.ExpectQuery(`SELECT id, user_id, room_id`).WithArgs(uint64(11)).WillReturnRows(bookingRow("completed"))

	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/status", `{"status":"cancelled"}`, 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "completed booking cannot be changed")
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	h, mock := newTestBookingHandler(t)
	mock.ExpectQuery(`SELECT id, user_id, room_id`).WithArgs(uint64(11)).WillReturnRows(bookingRow("confirmed"))

	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/status", `{"status":"confirmed"}`, 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking status unchanged")
	// No UPDATE was expected or executed.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusConfirmBlockedByOverlap(t *testing.T) {
	h, mock := newTestBookingHandler(t)
	mock.ExpectQuery(`SELECT id, user_id, room_id`).WithArgs(uint64(11)).WillReturnRows(bookingRow("pending"))
	// The re-check excludes the booking itself and finds a competing row.
	mock.ExpectQuery(`SELECT 1 FROM bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/status", `{"status":"confirmed"}`, 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot confirm")
}

func TestUpdateStatusStaleAfterConcurrentCancel(t *testing.T) {
	h, mock := newTestBookingHandler(t)
	mock.ExpectQuery(`SELECT id, user_id, room_id`).WithArgs(uint64(11)).WillReturnRows(bookingRow("pending"))
	// The overlap re-check passes, but between the load and the write the
	// expiry sweep cancelled the row: the guarded update matches nothing
	// and the stale confirm must not resurrect the booking.
	mock.ExpectQuery(`SELECT 1 FROM bookings`).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status = \?`).
		WithArgs("confirmed", uint64(11), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/status", `{"status":"confirmed"}`, 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "changed concurrently")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelIsIdempotent(t *testing.T) {
	h, mock := newTestBookingHandler(t)
	mock.ExpectQuery(`SELECT id, user_id, room_id`).WithArgs(uint64(11)).WillReturnRows(bookingRow("cancelled"))

	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/cancel", "", 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking already cancelled")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelCompletedConflicts(t *testing.T) {
	h, mock := newTestBookingHandler(t)
	mock.ExpectQuery(`SELECT id, user_id, room_id`).WithArgs(uint64(11)).WillReturnRows(bookingRow("completed"))

	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/cancel", "", 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelForeignBookingForbidden(t *testing.T) {
	h, mock := newTestBookingHandler(t)
	// Booking belongs to user 3; user 5 attempts the cancel.
	mock.ExpectQuery(`SELECT id, user_id, room_id`).WithArgs(uint64(11)).WillReturnRows(bookingRow("pending"))

	c, rec := newContext(t, http.MethodPatch, "/v1/bookings/11/cancel", "", 5, middleware.RoleCustomer)
	c.SetParamNames("id")
	c.SetParamValues("11")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetInvalidID(t *testing.T) {
	h, _ := newTestBookingHandler(t)
	c, rec := newContext(t, http.MethodGet, "/v1/bookings/abc", "", 1, middleware.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
