package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/response"
)

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service   *application.CouponService
	rateLimit gin.HandlerFunc
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service *application.CouponService, rateLimit gin.HandlerFunc) *CouponHandler {
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}
	return &CouponHandler{service: service, rateLimit: rateLimit}
}

// RegisterRoutes registers all coupon routes.
func (h *CouponHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	coupons := r.Group("/coupons")
	coupons.Use(middleware.AuthMiddleware(jwtManager))
	{
		coupons.POST("", adminRole, h.CreateCoupon)
		coupons.POST("/validate", h.rateLimit, h.ValidateCoupon)
		coupons.GET("/active", h.GetActiveCoupons)
		coupons.PUT("/:code/deactivate", adminRole, h.DeactivateCoupon)
	}
}

// CreateCoupon handles POST /api/v1/coupons.
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req application.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ValidateCoupon handles POST /api/v1/coupons/validate.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req application.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ValidateCoupon(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetActiveCoupons handles GET /api/v1/coupons/active.
func (h *CouponHandler) GetActiveCoupons(c *gin.Context) {
	result, err := h.service.GetActiveCoupons(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeactivateCoupon handles PUT /api/v1/coupons/:code/deactivate.
func (h *CouponHandler) DeactivateCoupon(c *gin.Context) {
	result, err := h.service.DeactivateCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
