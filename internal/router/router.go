package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/hotel-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/hotel-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The PublicHandler returns sanitized hotel and room data
// for guests, so no JWT or role middleware is applied.  The optional
// middlewares (response cache, rate limiter) are applied per route group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mws...)
	// Expose the list of all hotels.
	g.GET("/hotels", p.ListHotels)
	// Hotel details by id.
	g.GET("/hotels/:id", p.GetHotel)
	// List the active rooms of a hotel.
	g.GET("/hotels/:id/rooms", p.ListHotelRooms)
	// Room details by id.
	g.GET("/rooms/:id", p.GetRoom)
	// Availability probe for a date range.  Guests can check whether a room
	// is free for [check_in, check_out) before registering or logging in.
	g.GET("/rooms/:id/availability", p.RoomAvailability)
}

// RegisterBooking registers the booking lifecycle endpoints under /v1.
// All routes require a valid JWT; role requirements differ per endpoint,
// so RequireRole is attached route by route rather than on the group.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1", append([]echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}, mws...)...)

	anyRole := middleware.RequireRole(middleware.RoleCustomer, middleware.RoleHotelManager, middleware.RoleAdmin)
	staff := middleware.RequireRole(middleware.RoleHotelManager, middleware.RoleAdmin)

	// Any authenticated actor books for themselves and lists their own.
	g.POST("/bookings", b.Create, anyRole)
	g.GET("/my-bookings", b.ListMine, anyRole)

	// Booking detail is visible to the owning customer, the hotel's
	// managers and admins; the handler enforces the per-booking check.
	g.GET("/bookings/:id", b.Get, anyRole)

	// Cancellation is open to the owning customer and to hotel staff.
	g.PATCH("/bookings/:id/cancel", b.Cancel, anyRole)

	// Status transitions (confirm, back to pending, cancel) and completion
	// are staff operations on the hotel's bookings.
	g.PATCH("/bookings/:id/status", b.UpdateStatus, staff)
	g.PATCH("/bookings/:id/complete", b.Complete, staff)
}

// RegisterManager registers room management endpoints for hotel managers
// and admins.  Managers must additionally own the target hotel; that
// check lives in the handlers because it depends on the resource id.
func RegisterManager(e *echo.Echo, m *handler.ManagerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/manager",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleHotelManager, middleware.RoleAdmin),
	)
	g.POST("/hotels/:id/rooms", m.CreateRoom)
	g.GET("/hotels/:id/bookings", m.ListHotelBookings)
	g.PATCH("/rooms/:id", m.UpdateRoom)
	g.PUT("/rooms/:id", m.UpdateRoom) // alias for clients that send full documents
	g.DELETE("/rooms/:id", m.DeleteRoom)
}
