package coupon

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for coupons.
type Repository interface {
	Save(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	// FindByCode looks a coupon up by its normalized code. Missing coupons
	// yield ErrCouponNotFound.
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindActive(ctx context.Context) ([]*Coupon, error)
}
