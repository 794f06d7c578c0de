package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	couponDomain "github.com/staybook/service-booking/internal/domain/coupon"
	"github.com/staybook/service-booking/internal/platform/apperror"
)

// CouponService handles coupon use cases.
type CouponService struct {
	repo   couponDomain.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo couponDomain.Repository, logger *zap.Logger) *CouponService {
	return &CouponService{repo: repo, logger: logger, now: time.Now}
}

// CreateCoupon creates a new coupon (admin only).
func (s *CouponService) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*CouponDTO, error) {
	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		return nil, apperror.New(apperror.KindInvalid, "invalid expiresAt format (use RFC3339)")
	}
	discountType, err := couponDomain.ParseDiscountType(req.DiscountType)
	if err != nil {
		return nil, err
	}

	c, err := couponDomain.NewCoupon(
		req.Code,
		discountType,
		req.DiscountValue,
		req.MinOrderValue,
		req.MaxDiscount,
		req.UsageLimit,
		expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save coupon: %w", err)
	}

	s.logger.Info("coupon created",
		zap.String("code", c.Code()),
		zap.String("type", string(c.DiscountType())),
		zap.Int64("value", c.DiscountValue()),
	)
	return toCouponDTO(c), nil
}

// ValidateCoupon checks a code against an order amount and returns the
// discount it would grant. It never redeems the coupon.
func (s *CouponService) ValidateCoupon(ctx context.Context, req ValidateCouponRequest) (*CouponValidationDTO, error) {
	c, err := s.repo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	discount, err := c.Discount(req.OrderAmount, s.now())
	if err != nil {
		return nil, err
	}

	total := req.OrderAmount - discount
	if total < 0 {
		total = 0
	}
	return &CouponValidationDTO{
		Code:        c.Code(),
		Discount:    discount,
		OrderAmount: req.OrderAmount,
		Total:       total,
	}, nil
}

// GetActiveCoupons returns all redeemable coupons.
func (s *CouponService) GetActiveCoupons(ctx context.Context) ([]*CouponDTO, error) {
	coupons, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*CouponDTO, len(coupons))
	for i, c := range coupons {
		dtos[i] = toCouponDTO(c)
	}
	return dtos, nil
}

// DeactivateCoupon soft-deletes a coupon by code (admin only).
func (s *CouponService) DeactivateCoupon(ctx context.Context, code string) (*CouponDTO, error) {
	c, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	c.Deactivate()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	s.logger.Info("coupon deactivated", zap.String("code", c.Code()))
	return toCouponDTO(c), nil
}
