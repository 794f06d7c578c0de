package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// RoomHandler handles room and availability requests.
type RoomHandler struct {
	bookings  *application.BookingService
	catalog   *application.CatalogService
	rateLimit gin.HandlerFunc
}

// NewRoomHandler creates a new RoomHandler. rateLimit guards the public
// availability endpoint.
func NewRoomHandler(bookings *application.BookingService, catalog *application.CatalogService, rateLimit gin.HandlerFunc) *RoomHandler {
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}
	return &RoomHandler{bookings: bookings, catalog: catalog, rateLimit: rateLimit}
}

// RegisterRoutes registers all room routes.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	rooms := r.Group("/rooms")
	{
		rooms.POST("/check-availability", h.rateLimit, h.CheckAvailability)
		rooms.GET("/:id", h.GetRoom)
		rooms.POST("", middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin), h.CreateRoom)
	}
}

// CheckAvailability handles POST /api/v1/rooms/check-availability.
func (h *RoomHandler) CheckAvailability(c *gin.Context) {
	var req application.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.CheckAvailability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRoom handles GET /api/v1/rooms/:id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := paramID(c, "id", "room")
	if !ok {
		return
	}

	result, err := h.catalog.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateRoom handles POST /api/v1/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req application.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalog.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
