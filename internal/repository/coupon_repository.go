package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	couponDomain "github.com/staybook/service-booking/internal/domain/coupon"
)

// GormCouponRepository implements coupon.Repository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository.
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// Save persists a new coupon.
func (r *GormCouponRepository) Save(ctx context.Context, c *couponDomain.Coupon) error {
	model := toCouponModel(c)
	return translateWriteError(r.db.WithContext(ctx).Create(&model).Error)
}

// Update writes the mutable fields of a coupon. used_count is owned by the
// booking store and never overwritten here.
func (r *GormCouponRepository) Update(ctx context.Context, c *couponDomain.Coupon) error {
	result := r.db.WithContext(ctx).Model(&CouponModel{}).
		Where("id = ?", c.ID()).
		Updates(map[string]interface{}{
			"is_active":  c.IsActive(),
			"expires_at": c.ExpiresAt(),
			"updated_at": c.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return couponDomain.ErrCouponNotFound
	}
	return nil
}

// FindByCode finds a coupon by its case-insensitive code.
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*couponDomain.Coupon, error) {
	var model CouponModel
	if err := r.db.WithContext(ctx).Where("code = ?", couponDomain.NormalizeCode(code)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, couponDomain.ErrCouponNotFound
		}
		return nil, err
	}
	return toCouponDomain(&model), nil
}

// FindByID finds a coupon by ID.
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*couponDomain.Coupon, error) {
	var model CouponModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, couponDomain.ErrCouponNotFound
		}
		return nil, err
	}
	return toCouponDomain(&model), nil
}

// FindActive returns active, unexpired coupons.
func (r *GormCouponRepository) FindActive(ctx context.Context) ([]*couponDomain.Coupon, error) {
	var models []CouponModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND expires_at > ?", true, time.Now().UTC()).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	coupons := make([]*couponDomain.Coupon, len(models))
	for i := range models {
		coupons[i] = toCouponDomain(&models[i])
	}
	return coupons, nil
}

func toCouponModel(c *couponDomain.Coupon) CouponModel {
	return CouponModel{
		ID:            c.ID(),
		Code:          c.Code(),
		DiscountType:  string(c.DiscountType()),
		DiscountValue: c.DiscountValue(),
		MinOrderValue: c.MinOrderValue(),
		MaxDiscount:   c.MaxDiscount(),
		ExpiresAt:     c.ExpiresAt(),
		UsageLimit:    c.UsageLimit(),
		UsedCount:     c.UsedCount(),
		IsActive:      c.IsActive(),
		CreatedAt:     c.CreatedAt(),
		UpdatedAt:     c.UpdatedAt(),
	}
}

func toCouponDomain(m *CouponModel) *couponDomain.Coupon {
	return couponDomain.Reconstruct(
		m.ID, m.Code, couponDomain.DiscountType(m.DiscountType),
		m.DiscountValue, m.MinOrderValue, m.MaxDiscount,
		m.ExpiresAt, m.UsageLimit, m.UsedCount, m.IsActive,
		m.CreatedAt, m.UpdatedAt,
	)
}
