package coupon

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/apperror"
)

// DiscountType represents the type of discount.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFlat       DiscountType = "FLAT"
)

var (
	ErrCouponNotFound     = apperror.New(apperror.KindNotFound, "coupon not found")
	ErrCouponExpired      = apperror.New(apperror.KindInvalid, "coupon has expired")
	ErrCouponExhausted    = apperror.New(apperror.KindInvalid, "coupon usage limit reached")
	ErrMinimumOrderNotMet = apperror.New(apperror.KindInvalid, "minimum order value not met")
	ErrInvalidCoupon      = apperror.New(apperror.KindInvalid, "invalid coupon")
)

// Coupon is the aggregate root for discount codes.
type Coupon struct {
	id            uuid.UUID
	code          string
	discountType  DiscountType
	discountValue int64 // percentage (1-100) or flat amount in minor units
	minOrderValue int64
	maxDiscount   int64 // percentage coupons only; 0 means uncapped
	expiresAt     time.Time
	usageLimit    int // 0 means unlimited
	usedCount     int
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

// NormalizeCode canonicalises a coupon code for case-insensitive lookups.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseDiscountType accepts the discount type in any letter case.
func ParseDiscountType(s string) (DiscountType, error) {
	switch DiscountType(strings.ToUpper(strings.TrimSpace(s))) {
	case DiscountPercentage:
		return DiscountPercentage, nil
	case DiscountFlat:
		return DiscountFlat, nil
	}
	return "", fmt.Errorf("%w: discount type %q", ErrInvalidCoupon, s)
}

// NewCoupon creates a new active coupon.
func NewCoupon(code string, discountType DiscountType, discountValue, minOrderValue, maxDiscount int64, usageLimit int, expiresAt time.Time) (*Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrInvalidCoupon)
	}
	if discountType != DiscountPercentage && discountType != DiscountFlat {
		return nil, fmt.Errorf("%w: discount type %q", ErrInvalidCoupon, discountType)
	}
	if discountValue <= 0 {
		return nil, fmt.Errorf("%w: discount value must be positive", ErrInvalidCoupon)
	}
	if discountType == DiscountPercentage && discountValue > 100 {
		return nil, fmt.Errorf("%w: percentage discount cannot exceed 100", ErrInvalidCoupon)
	}
	if discountType == DiscountFlat && maxDiscount != 0 {
		return nil, fmt.Errorf("%w: max discount applies to percentage coupons only", ErrInvalidCoupon)
	}
	if minOrderValue < 0 || maxDiscount < 0 || usageLimit < 0 {
		return nil, fmt.Errorf("%w: limits cannot be negative", ErrInvalidCoupon)
	}
	if expiresAt.IsZero() {
		return nil, fmt.Errorf("%w: expiry date is required", ErrInvalidCoupon)
	}

	now := time.Now().UTC()
	return &Coupon{
		id:            uuid.New(),
		code:          code,
		discountType:  discountType,
		discountValue: discountValue,
		minOrderValue: minOrderValue,
		maxDiscount:   maxDiscount,
		expiresAt:     expiresAt.UTC(),
		usageLimit:    usageLimit,
		isActive:      true,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Coupon from persistence.
func Reconstruct(id uuid.UUID, code string, discountType DiscountType, discountValue, minOrderValue, maxDiscount int64, expiresAt time.Time, usageLimit, usedCount int, isActive bool, createdAt, updatedAt time.Time) *Coupon {
	return &Coupon{
		id: id, code: code, discountType: discountType, discountValue: discountValue,
		minOrderValue: minOrderValue, maxDiscount: maxDiscount, expiresAt: expiresAt,
		usageLimit: usageLimit, usedCount: usedCount, isActive: isActive,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// Check runs the applicability rules in order: active, not expired, not
// exhausted, minimum order met.
func (c *Coupon) Check(orderAmount int64, now time.Time) error {
	if !c.isActive {
		return ErrCouponNotFound
	}
	if now.After(c.expiresAt) {
		return ErrCouponExpired
	}
	if c.Exhausted() {
		return ErrCouponExhausted
	}
	if orderAmount < c.minOrderValue {
		return fmt.Errorf("%w: order %d, minimum %d", ErrMinimumOrderNotMet, orderAmount, c.minOrderValue)
	}
	return nil
}

// Discount returns the discount for the order amount. Percentage discounts
// round half-up to the minor unit and respect maxDiscount; no discount ever
// exceeds the order amount.
func (c *Coupon) Discount(orderAmount int64, now time.Time) (int64, error) {
	if err := c.Check(orderAmount, now); err != nil {
		return 0, err
	}

	var discount int64
	switch c.discountType {
	case DiscountPercentage:
		discount = (orderAmount*c.discountValue + 50) / 100
		if c.maxDiscount > 0 && discount > c.maxDiscount {
			discount = c.maxDiscount
		}
	case DiscountFlat:
		discount = c.discountValue
	}

	if discount > orderAmount {
		discount = orderAmount
	}
	return discount, nil
}

// Exhausted reports whether the usage limit has been reached.
func (c *Coupon) Exhausted() bool {
	return c.usageLimit > 0 && c.usedCount >= c.usageLimit
}

// Deactivate soft-deletes the coupon.
func (c *Coupon) Deactivate() {
	c.isActive = false
	c.updatedAt = time.Now().UTC()
}

// Getters.
func (c *Coupon) ID() uuid.UUID              { return c.id }
func (c *Coupon) Code() string               { return c.code }
func (c *Coupon) DiscountType() DiscountType { return c.discountType }
func (c *Coupon) DiscountValue() int64       { return c.discountValue }
func (c *Coupon) MinOrderValue() int64       { return c.minOrderValue }
func (c *Coupon) MaxDiscount() int64         { return c.maxDiscount }
func (c *Coupon) ExpiresAt() time.Time       { return c.expiresAt }
func (c *Coupon) UsageLimit() int            { return c.usageLimit }
func (c *Coupon) UsedCount() int             { return c.usedCount }
func (c *Coupon) IsActive() bool             { return c.isActive }
func (c *Coupon) CreatedAt() time.Time       { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time       { return c.updatedAt }
