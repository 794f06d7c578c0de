package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/domain/addon"
	"github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/domain/coupon"
	"github.com/staybook/service-booking/internal/domain/pricing"
	"github.com/staybook/service-booking/internal/domain/room"
)

const dateLayout = "2006-01-02"

// CheckAvailabilityRequest is the body of POST /rooms/check-availability.
type CheckAvailabilityRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	CheckIn  string `json:"checkIn" binding:"required"`
	CheckOut string `json:"checkOut" binding:"required"`
}

// AvailabilityDTO reports whether a room is free.
type AvailabilityDTO struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// AddOnSelectionRequest references a catalog add-on. Quantity defaults to 1.
type AddOnSelectionRequest struct {
	Code     string `json:"code" binding:"required"`
	Quantity int    `json:"quantity"`
}

// QuoteRequest describes a stay to price.
type QuoteRequest struct {
	Room          string                  `json:"room" binding:"required"`
	CheckIn       string                  `json:"checkIn" binding:"required"`
	CheckOut      string                  `json:"checkOut" binding:"required"`
	Adults        int                     `json:"adults"`
	Children      int                     `json:"children"`
	YoungChildren int                     `json:"youngChildren"`
	CouponCode    string                  `json:"couponCode"`
	AddOns        []AddOnSelectionRequest `json:"addOns"`
}

// CreateBookingRequest is the body of POST /bookings. TotalPrice is the
// amount shown to the guest; when set it must equal the server quote.
type CreateBookingRequest struct {
	QuoteRequest
	TotalPrice    *int64 `json:"totalPrice"`
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateStatusRequest is the body of PUT /bookings/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentRequest is the body of PUT /bookings/:id/payment.
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// QuoteDTO is a price breakdown for a stay.
type QuoteDTO struct {
	RoomID   uuid.UUID           `json:"roomId"`
	CheckIn  string              `json:"checkIn"`
	CheckOut string              `json:"checkOut"`
	Guests   pricing.GuestCounts `json:"guests"`
	Currency string              `json:"currency"`
	pricing.Quote
}

// BookingDTO is the API representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID           `json:"id"`
	RoomID        uuid.UUID           `json:"roomId"`
	UserID        uuid.UUID           `json:"userId"`
	CheckIn       string              `json:"checkIn"`
	CheckOut      string              `json:"checkOut"`
	Nights        int                 `json:"nights"`
	Guests        pricing.GuestCounts `json:"guests"`
	AddOns        []pricing.Line      `json:"addOns"`
	CouponCode    string              `json:"couponCode,omitempty"`
	BasePrice     int64               `json:"basePrice"`
	AddOnTotal    int64               `json:"addOnTotal"`
	Discount      int64               `json:"discount"`
	TotalPrice    int64               `json:"totalPrice"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"paymentStatus"`
	CancelledAt   *time.Time          `json:"cancelledAt,omitempty"`
	Version       int64               `json:"version"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// BookingStatsDTO summarises bookings for admins.
type BookingStatsDTO struct {
	Revenue       int64            `json:"revenue"`
	Currency      string           `json:"currency"`
	TotalBookings int64            `json:"totalBookings"`
	CountByStatus map[string]int64 `json:"countByStatus"`
}

// CreateCouponRequest is the body of POST /coupons.
type CreateCouponRequest struct {
	Code          string `json:"code" binding:"required"`
	DiscountType  string `json:"discountType" binding:"required"`
	DiscountValue int64  `json:"discountValue" binding:"required"`
	MinOrderValue int64  `json:"minOrderValue"`
	MaxDiscount   int64  `json:"maxDiscount"`
	UsageLimit    int    `json:"usageLimit"`
	ExpiresAt     string `json:"expiresAt" binding:"required"`
}

// ValidateCouponRequest is the body of POST /coupons/validate.
type ValidateCouponRequest struct {
	Code        string `json:"code" binding:"required"`
	OrderAmount int64  `json:"orderAmount" binding:"gte=0"`
}

// CouponValidationDTO is the result of validating a coupon.
type CouponValidationDTO struct {
	Code        string `json:"code"`
	Discount    int64  `json:"discount"`
	OrderAmount int64  `json:"orderAmount"`
	Total       int64  `json:"total"`
}

// CouponDTO is the API representation of a coupon.
type CouponDTO struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	DiscountType  string    `json:"discountType"`
	DiscountValue int64     `json:"discountValue"`
	MinOrderValue int64     `json:"minOrderValue"`
	MaxDiscount   int64     `json:"maxDiscount"`
	UsageLimit    int       `json:"usageLimit"`
	UsedCount     int       `json:"usedCount"`
	IsActive      bool      `json:"isActive"`
	ExpiresAt     time.Time `json:"expiresAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateRoomRequest is the body of POST /rooms.
type CreateRoomRequest struct {
	Name        string   `json:"name" binding:"required"`
	Type        string   `json:"type"`
	NightlyRate int64    `json:"nightlyRate" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required"`
	Amenities   []string `json:"amenities"`
}

// RoomDTO is the API representation of a room.
type RoomDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type,omitempty"`
	NightlyRate int64     `json:"nightlyRate"`
	Capacity    int       `json:"capacity"`
	Amenities   []string  `json:"amenities"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateAddOnRequest is the body of POST /addons.
type CreateAddOnRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name"`
	Mode      string `json:"mode" binding:"required"`
	UnitPrice int64  `json:"unitPrice" binding:"gte=0"`
}

// AddOnDTO is the API representation of a catalog add-on.
type AddOnDTO struct {
	ID        uuid.UUID    `json:"id"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Mode      pricing.Mode `json:"mode"`
	UnitPrice int64        `json:"unitPrice"`
}

func toBookingDTO(b *booking.Booking) *BookingDTO {
	addOns := b.AddOns()
	if addOns == nil {
		addOns = []pricing.Line{}
	}
	return &BookingDTO{
		ID:            b.ID(),
		RoomID:        b.RoomID(),
		UserID:        b.UserID(),
		CheckIn:       b.Stay().CheckIn.Format(dateLayout),
		CheckOut:      b.Stay().CheckOut.Format(dateLayout),
		Nights:        b.Stay().Nights(),
		Guests:        b.Guests(),
		AddOns:        addOns,
		CouponCode:    b.CouponCode(),
		BasePrice:     b.BasePrice(),
		AddOnTotal:    b.AddOnTotal(),
		Discount:      b.Discount(),
		TotalPrice:    b.Total(),
		Currency:      b.Currency(),
		Status:        string(b.Status()),
		PaymentStatus: string(b.PaymentStatus()),
		CancelledAt:   b.CancelledAt(),
		Version:       b.Version(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*booking.Booking) []*BookingDTO {
	dtos := make([]*BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	return dtos
}

func toCouponDTO(c *coupon.Coupon) *CouponDTO {
	return &CouponDTO{
		ID:            c.ID(),
		Code:          c.Code(),
		DiscountType:  string(c.DiscountType()),
		DiscountValue: c.DiscountValue(),
		MinOrderValue: c.MinOrderValue(),
		MaxDiscount:   c.MaxDiscount(),
		UsageLimit:    c.UsageLimit(),
		UsedCount:     c.UsedCount(),
		IsActive:      c.IsActive(),
		ExpiresAt:     c.ExpiresAt(),
		CreatedAt:     c.CreatedAt(),
	}
}

func toRoomDTO(r *room.Room) *RoomDTO {
	return &RoomDTO{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		NightlyRate: r.NightlyRate,
		Capacity:    r.Capacity,
		Amenities:   r.Amenities,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
	}
}

func toAddOnDTO(a *addon.AddOn) *AddOnDTO {
	return &AddOnDTO{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Mode:      a.Mode,
		UnitPrice: a.UnitPrice,
	}
}
