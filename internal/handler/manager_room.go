package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// ManagerHandler bundles the repositories managers and admins use to
// maintain rooms and inspect the bookings of their hotels.  Role
// middleware guarantees only admin and hotel_manager reach these
// handlers; managers additionally pass an ownership check per hotel.
type ManagerHandler struct {
	RoomRepo    *repository.RoomRepo
	HotelRepo   *repository.HotelRepo
	BookingRepo *repository.BookingRepo
}

// NewManagerHandler constructs a ManagerHandler; all dependencies must
// be non-nil.
func NewManagerHandler(roomRepo *repository.RoomRepo, hotelRepo *repository.HotelRepo, bookingRepo *repository.BookingRepo) *ManagerHandler {
	if roomRepo == nil || hotelRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewManagerHandler")
	}
	return &ManagerHandler{RoomRepo: roomRepo, HotelRepo: hotelRepo, BookingRepo: bookingRepo}
}

// roomRequest is the body for room creation and updates.  Pointer fields
// distinguish "absent" from zero values on partial updates.
type roomRequest struct {
	Name          *string `json:"name"`
	RoomType      *string `json:"room_type"`
	Capacity      *uint32 `json:"capacity"`
	PricePerNight *string `json:"price_per_night"`
	IsActive      *bool   `json:"is_active"`
}

// requireHotel checks that the actor may manage the given hotel.
// Admins always may; managers must be linked through hotel_managers.
// Returns nil to proceed or a completed JSON error response.
func (h *ManagerHandler) requireHotel(c echo.Context, hotelID uint64) error {
	if !isManager(c) {
		return nil
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	owns, err := h.HotelRepo.ManagerOwnsHotel(c.Request().Context(), userID, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !owns {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not allowed to manage this hotel"})
	}
	return nil
}

// CreateRoom handles POST /v1/manager/hotels/:id/rooms.
func (h *ManagerHandler) CreateRoom(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.HotelRepo.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if denied := h.requireHotel(c, hotelID); denied != nil {
		return denied
	}
	var body roomRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == nil || *body.Name == "" || body.PricePerNight == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and price_per_night required"})
	}
	price, err := decimal.NewFromString(*body.PricePerNight)
	if err != nil || !price.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_night must be a positive decimal"})
	}
	room := model.Room{
		HotelID:       hotelID,
		Name:          *body.Name,
		PricePerNight: price,
		IsActive:      true,
	}
	if body.RoomType != nil {
		room.RoomType = *body.RoomType
	}
	if body.Capacity != nil {
		room.Capacity = *body.Capacity
	}
	if body.IsActive != nil {
		room.IsActive = *body.IsActive
	}
	if err := h.RoomRepo.Create(ctx, &room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toRoomResponse(room)})
}

// UpdateRoom handles PATCH /v1/manager/rooms/:id.  Only the provided
// fields are changed.  A price change affects future bookings only;
// totals of existing bookings were frozen at creation.
func (h *ManagerHandler) UpdateRoom(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	room, err := h.RoomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if denied := h.requireHotel(c, room.HotelID); denied != nil {
		return denied
	}
	var body roomRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		if *body.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
		}
		room.Name = *body.Name
	}
	if body.RoomType != nil {
		room.RoomType = *body.RoomType
	}
	if body.Capacity != nil {
		room.Capacity = *body.Capacity
	}
	if body.PricePerNight != nil {
		price, err := decimal.NewFromString(*body.PricePerNight)
		if err != nil || !price.IsPositive() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_night must be a positive decimal"})
		}
		room.PricePerNight = price
	}
	if body.IsActive != nil {
		room.IsActive = *body.IsActive
	}
	if err := h.RoomRepo.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toRoomResponse(*room)})
}

// DeleteRoom handles DELETE /v1/manager/rooms/:id.  Rooms with bookings
// that still hold the room cannot be deleted; the handler answers 409 so
// the manager cancels or completes those bookings first.
func (h *ManagerHandler) DeleteRoom(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	room, err := h.RoomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if denied := h.requireHotel(c, room.HotelID); denied != nil {
		return denied
	}
	if err := h.RoomRepo.Delete(ctx, roomID); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has active bookings"})
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete room"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListHotelBookings handles GET /v1/manager/hotels/:id/bookings.  It
// returns every booking for rooms of the hotel, newest first.
func (h *ManagerHandler) ListHotelBookings(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.HotelRepo.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if denied := h.requireHotel(c, hotelID); denied != nil {
		return denied
	}
	details, err := h.BookingRepo.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}
