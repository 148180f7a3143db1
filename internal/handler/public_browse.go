package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// PublicHandler exposes unauthenticated browse endpoints: hotels, their
// rooms, and room availability for a date range.  Responses contain
// sanitized data only and are safe to cache; the router wraps these
// routes with the Redis response cache and rate limiter.
type PublicHandler struct {
	HotelRepo   *repository.HotelRepo
	RoomRepo    *repository.RoomRepo
	BookingRepo *repository.BookingRepo
}

// NewPublicHandler constructs a PublicHandler; all dependencies must be
// non-nil.
func NewPublicHandler(hotelRepo *repository.HotelRepo, roomRepo *repository.RoomRepo, bookingRepo *repository.BookingRepo) *PublicHandler {
	if hotelRepo == nil || roomRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{HotelRepo: hotelRepo, RoomRepo: roomRepo, BookingRepo: bookingRepo}
}

// hotelResponse is the public JSON shape of a hotel.
type hotelResponse struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Stars   uint8  `json:"stars"`
}

// roomResponse is the public JSON shape of a room.
type roomResponse struct {
	ID            uint64          `json:"id"`
	HotelID       uint64          `json:"hotel_id"`
	Name          string          `json:"name"`
	RoomType      string          `json:"room_type"`
	Capacity      uint32          `json:"capacity"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	IsActive      bool            `json:"is_active"`
}

func toHotelResponse(h model.Hotel) hotelResponse {
	return hotelResponse{ID: h.ID, Name: h.Name, City: h.City, Address: h.Address, Stars: h.Stars}
}

func toRoomResponse(r model.Room) roomResponse {
	return roomResponse{
		ID: r.ID, HotelID: r.HotelID, Name: r.Name, RoomType: r.RoomType,
		Capacity: r.Capacity, PricePerNight: r.PricePerNight, IsActive: r.IsActive,
	}
}

// ListHotels handles GET /v1/hotels.
func (h *PublicHandler) ListHotels(c echo.Context) error {
	hotels, err := h.HotelRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotels"})
	}
	items := make([]hotelResponse, 0, len(hotels))
	for _, ht := range hotels {
		items = append(items, toHotelResponse(ht))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetHotel handles GET /v1/hotels/:id.
func (h *PublicHandler) GetHotel(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	hotel, err := h.HotelRepo.GetByID(c.Request().Context(), hotelID)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch hotel"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toHotelResponse(*hotel)})
}

// ListHotelRooms handles GET /v1/hotels/:id/rooms.  Only active rooms
// are visible to guests.
func (h *PublicHandler) ListHotelRooms(c echo.Context) error {
	hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || hotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.HotelRepo.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch hotel"})
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, hotelID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	items := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, toRoomResponse(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *PublicHandler) GetRoom(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.RoomRepo.GetByID(c.Request().Context(), roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch room"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toRoomResponse(*room)})
}

// RoomAvailability handles GET /v1/rooms/:id/availability.  It answers
// whether the room is free for the half-open range
// [check_in, check_out): a stay ending on a given day does not block a
// new stay starting that day.
func (h *PublicHandler) RoomAvailability(c echo.Context) error {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	checkIn, err := booking.ParseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be a YYYY-MM-DD date"})
	}
	checkOut, err := booking.ParseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be a YYYY-MM-DD date"})
	}
	if !checkIn.Before(checkOut) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}
	ctx := c.Request().Context()
	if _, err := h.RoomRepo.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch room"})
	}
	overlap, err := h.BookingRepo.HasOverlap(ctx, roomID, checkIn, checkOut, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   roomID,
		"check_in":  booking.FormatDate(checkIn),
		"check_out": booking.FormatDate(checkOut),
		"available": !overlap,
	})
}
