package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// actorFrom returns the authenticated caller, writing 401 when there is none.
func actorFrom(c *gin.Context) (booking.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return booking.Actor{}, false
	}
	return booking.Actor{UserID: userID, Admin: middleware.IsAdmin(c)}, true
}

// paramID parses a UUID path parameter, writing 400 when it is malformed.
func paramID(c *gin.Context, name, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams reads page and limit query parameters. Out-of-range values fall
// back to the first page and the default size.
func pageParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return page, limit
}
