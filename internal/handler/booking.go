package handler

import (
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // event timestamps

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-booking/internal/service"
)

// BookingHandler groups the repositories required to create bookings and
// drive them through their lifecycle on behalf of customers, managers
// and admins.  All methods assume that JWT authentication and role
// validation has already been performed by middleware.  Methods may
// return 401 Unauthorized if the user ID cannot be extracted from the
// context.  The creation path runs its availability check and insert
// inside one transaction to guarantee atomicity.
type BookingHandler struct {
	BookingRepo *repository.BookingRepo // access to bookings, availability predicates and bulk expiry
	RoomRepo    *repository.RoomRepo    // room lookups for price and existence checks
	HotelRepo   *repository.HotelRepo   // manager ownership lookups
	AuditRepo   *repository.AuditRepo   // append-only record of privileged transitions
}

// NewBookingHandler constructs a new BookingHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewBookingHandler(bookingRepo *repository.BookingRepo, roomRepo *repository.RoomRepo, hotelRepo *repository.HotelRepo, auditRepo *repository.AuditRepo) *BookingHandler {
	if bookingRepo == nil || roomRepo == nil || hotelRepo == nil || auditRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		BookingRepo: bookingRepo,
		RoomRepo:    roomRepo,
		HotelRepo:   hotelRepo,
		AuditRepo:   auditRepo,
	}
}

// createBookingRequest is the body of POST /v1/bookings.  Dates travel
// as YYYY-MM-DD strings.
type createBookingRequest struct {
	RoomID   uint64 `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// Create handles POST /v1/bookings.  It validates the requested range,
// checks that the room exists and is free for [check_in, check_out),
// freezes the total price from the room's current nightly rate, and
// persists a new pending booking.  The availability check and the insert
// share one transaction; the residual race against a concurrent create
// is accepted here and closed at confirmation time (see UpdateStatus).
// Returns 201 with the booking including nights, total price and
// denormalized room/hotel fields, or 400/404/409 on validation, missing
// room, or overlap.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RoomID == 0 || body.CheckIn == "" || body.CheckOut == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id, check_in, check_out required"})
	}
	checkIn, err := booking.ParseDate(body.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be a YYYY-MM-DD date"})
	}
	checkOut, err := booking.ParseDate(body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be a YYYY-MM-DD date"})
	}
	if !checkIn.Before(checkOut) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	ctx := c.Request().Context()
	room, err := h.RoomRepo.GetByID(ctx, body.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	hotel, err := h.HotelRepo.GetByID(ctx, room.HotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	nights := booking.Nights(checkIn, checkOut)
	total := booking.Total(room.PricePerNight, nights)

	tx, err := h.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	available, err := h.BookingRepo.IsRoomAvailableTx(ctx, tx, room.ID, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	if !available {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available in that range"})
	}
	bk := &model.Booking{
		UserID:     userID,
		RoomID:     room.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: total,
		Status:     booking.StatusPending,
	}
	if err := h.BookingRepo.CreateTx(ctx, tx, bk); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	detail := repository.BookingDetail{
		ID:         bk.ID,
		UserID:     bk.UserID,
		RoomID:     bk.RoomID,
		CheckIn:    booking.FormatDate(checkIn),
		CheckOut:   booking.FormatDate(checkOut),
		Nights:     nights,
		TotalPrice: total,
		Status:     bk.Status,
		RoomName:   room.Name,
		RoomType:   room.RoomType,
		HotelID:    hotel.ID,
		HotelName:  hotel.Name,
		CreatedAt:  bk.CreatedAt.UTC().Format(time.RFC3339),
	}
	// Event delivery is best effort; the booking is committed either way.
	_ = queue_publisher.PublishBookingEvent(ctx, eventFromDetail(&detail, ""))

	return c.JSON(http.StatusCreated, detail)
}

// updateStatusRequest is the body of PATCH /v1/bookings/:id/status.
type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.  Admins may act on
// any booking; managers only on bookings of hotels they manage.  The
// endpoint accepts pending, confirmed or cancelled; completion has its
// own endpoint.  A transition into confirmed re-runs the overlap check
// excluding the booking itself, so a confirm is refused while any other
// active booking holds part of the range.  The write itself is guarded
// by the loaded status, so a booking that moved on concurrently answers
// 409 instead of being overwritten.  Responds 200 on success and
// 400/403/404/409 on bad input, foreign hotel, missing booking, or an
// illegal or stale transition.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body updateStatusRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target, err := booking.ParseStatus(body.Status)
	if err != nil || target == booking.StatusCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be one of pending|confirmed|cancelled"})
	}

	ctx := c.Request().Context()
	if denied := h.requireHotelAuthority(c, bookingID, userID); denied != nil {
		return denied
	}

	bk, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if !booking.CanTransition(bk.Status, target) {
		return c.JSON(http.StatusConflict, echo.Map{"error": transitionError(bk.Status)})
	}
	if bk.Status == target {
		// Idempotent re-assertion of the current state; nothing to write.
		return c.JSON(http.StatusOK, echo.Map{"message": "booking status unchanged", "id": bookingID, "status": target})
	}
	if target == booking.StatusConfirmed {
		overlap, err := h.BookingRepo.HasOverlap(ctx, bk.RoomID, bk.CheckIn, bk.CheckOut, bk.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
		}
		if overlap {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot confirm: room is not available in that range"})
		}
	}

	if err := h.BookingRepo.UpdateStatus(ctx, bookingID, bk.Status, target); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking changed concurrently, reload and retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	h.recordTransition(c, userID, bookingID, "booking.status", bk.Status, target)

	return c.JSON(http.StatusOK, echo.Map{"message": "booking status updated", "id": bookingID, "status": target})
}

// Complete handles PATCH /v1/bookings/:id/complete.  Marking a stay
// completed is legal only from pending or confirmed; admins may complete
// any booking, managers only bookings of their own hotels.
func (h *BookingHandler) Complete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	if denied := h.requireHotelAuthority(c, bookingID, userID); denied != nil {
		return denied
	}
	bk, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !booking.CanTransition(bk.Status, booking.StatusCompleted) {
		return c.JSON(http.StatusConflict, echo.Map{"error": transitionError(bk.Status)})
	}
	if err := h.BookingRepo.UpdateStatus(ctx, bookingID, bk.Status, booking.StatusCompleted); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking changed concurrently, reload and retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	h.recordTransition(c, userID, bookingID, "booking.complete", bk.Status, booking.StatusCompleted)

	return c.JSON(http.StatusOK, echo.Map{"message": "booking marked as completed"})
}

// Cancel handles PATCH /v1/bookings/:id/cancel.  Customers may cancel
// only their own bookings; managers bookings of their hotels; admins
// any.  Cancellation is idempotent: cancelling an already cancelled
// booking succeeds without touching the row.  Completed bookings cannot
// be cancelled through this endpoint.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	bk, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	switch getRole(c) {
	case middleware.RoleCustomer:
		if bk.UserID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only cancel your own bookings"})
		}
	case middleware.RoleHotelManager:
		if denied := h.requireHotelAuthority(c, bookingID, userID); denied != nil {
			return denied
		}
	}

	if bk.Status == booking.StatusCancelled {
		return c.JSON(http.StatusOK, echo.Map{"message": "booking already cancelled", "id": bookingID, "status": booking.StatusCancelled})
	}
	if !booking.CanTransition(bk.Status, booking.StatusCancelled) {
		return c.JSON(http.StatusConflict, echo.Map{"error": transitionError(bk.Status)})
	}
	if err := h.BookingRepo.UpdateStatus(ctx, bookingID, bk.Status, booking.StatusCancelled); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking changed concurrently, reload and retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
	}
	h.recordTransition(c, userID, bookingID, "booking.cancel", bk.Status, booking.StatusCancelled)

	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled", "id": bookingID, "status": booking.StatusCancelled})
}

// ListMine handles GET /v1/my-bookings.  It returns all bookings created
// by the current user with denormalized room and hotel fields, newest
// first.  When no bookings exist, it returns an empty array.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Get handles GET /v1/bookings/:id.  Customers may only view their own
// bookings; managers bookings of their hotels; admins any.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	detail, err := h.BookingRepo.DetailByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	switch getRole(c) {
	case middleware.RoleCustomer:
		if detail.UserID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	case middleware.RoleHotelManager:
		owns, err := h.HotelRepo.ManagerOwnsHotel(ctx, userID, detail.HotelID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if !owns {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// requireHotelAuthority enforces that a hotel_manager actor manages the
// hotel owning the booking.  It returns nil when the actor is allowed to
// proceed and a completed JSON error response otherwise.  Admins pass
// through untouched.
func (h *BookingHandler) requireHotelAuthority(c echo.Context, bookingID, userID uint64) error {
	if !isManager(c) {
		return nil
	}
	ctx := c.Request().Context()
	hotelID, err := h.BookingRepo.HotelIDByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	owns, err := h.HotelRepo.ManagerOwnsHotel(ctx, userID, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !owns {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not allowed to manage this hotel"})
	}
	return nil
}

// recordTransition appends an audit entry carrying the prior status and
// publishes a lifecycle event.  Both are best effort: failures are
// logged by the lower layers and never fail the user-facing operation.
func (h *BookingHandler) recordTransition(c echo.Context, actorID, bookingID uint64, action string, from, to booking.Status) {
	ctx := c.Request().Context()
	_ = h.AuditRepo.Record(ctx, &actorID, action, "booking", strconv.FormatUint(bookingID, 10), echo.Map{
		"from": from,
		"to":   to,
	})
	if detail, err := h.BookingRepo.DetailByID(ctx, bookingID); err == nil {
		_ = queue_publisher.PublishBookingEvent(ctx, eventFromDetail(detail, from))
	}
}

// transitionError maps an illegal source state to the message returned
// with a 409 response.
func transitionError(from booking.Status) string {
	switch from {
	case booking.StatusCompleted:
		return "completed booking cannot be changed"
	case booking.StatusCancelled:
		return "cancelled booking cannot be re-activated"
	}
	return "illegal status transition"
}

// eventFromDetail builds the broker payload for a booking lifecycle
// change.  prev is empty for creation events.
func eventFromDetail(d *repository.BookingDetail, prev booking.Status) queue.BookingEvent {
	return queue.BookingEvent{
		BookingID:      d.ID,
		UserID:         d.UserID,
		RoomID:         d.RoomID,
		HotelID:        d.HotelID,
		HotelName:      d.HotelName,
		RoomName:       d.RoomName,
		CheckIn:        d.CheckIn,
		CheckOut:       d.CheckOut,
		TotalPrice:     d.TotalPrice.StringFixed(2),
		Status:         string(d.Status),
		PreviousStatus: string(prev),
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
