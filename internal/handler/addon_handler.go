package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// AddOnHandler exposes the add-on catalog.
type AddOnHandler struct {
	catalog *application.CatalogService
}

// NewAddOnHandler creates a new AddOnHandler.
func NewAddOnHandler(catalog *application.CatalogService) *AddOnHandler {
	return &AddOnHandler{catalog: catalog}
}

// RegisterRoutes registers the add-on routes.
func (h *AddOnHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	addOns := r.Group("/addons")
	{
		addOns.GET("", h.ListAddOns)
		addOns.POST("", middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin), h.CreateAddOn)
	}
}

// ListAddOns handles GET /api/v1/addons.
func (h *AddOnHandler) ListAddOns(c *gin.Context) {
	result, err := h.catalog.ListAddOns(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateAddOn handles POST /api/v1/addons.
func (h *AddOnHandler) CreateAddOn(c *gin.Context) {
	var req application.CreateAddOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalog.CreateAddOn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
