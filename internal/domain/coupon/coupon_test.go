package coupon

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestCoupon(discountType DiscountType, value, minOrder, maxDiscount int64, limit, used int, active bool, expiresAt time.Time) *Coupon {
	return Reconstruct(uuid.New(), "SAVE10", discountType, value, minOrder, maxDiscount,
		expiresAt, limit, used, active, now, now)
}

func TestNewCoupon(t *testing.T) {
	c, err := NewCoupon("  save10 ", DiscountPercentage, 10, 0, 100000, 5, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code())
	assert.True(t, c.IsActive())
	assert.Equal(t, 0, c.UsedCount())

	invalid := []struct {
		name  string
		build func() (*Coupon, error)
	}{
		{"empty code", func() (*Coupon, error) { return NewCoupon(" ", DiscountFlat, 100, 0, 0, 0, now) }},
		{"zero value", func() (*Coupon, error) { return NewCoupon("X", DiscountFlat, 0, 0, 0, 0, now) }},
		{"percent over 100", func() (*Coupon, error) { return NewCoupon("X", DiscountPercentage, 101, 0, 0, 0, now) }},
		{"flat with max", func() (*Coupon, error) { return NewCoupon("X", DiscountFlat, 100, 0, 50, 0, now) }},
		{"negative limit", func() (*Coupon, error) { return NewCoupon("X", DiscountFlat, 100, 0, 0, -1, now) }},
		{"no expiry", func() (*Coupon, error) { return NewCoupon("X", DiscountFlat, 100, 0, 0, 0, time.Time{}) }},
		{"unknown type", func() (*Coupon, error) { return NewCoupon("X", "BOGO", 100, 0, 0, 0, now) }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			assert.ErrorIs(t, err, ErrInvalidCoupon)
		})
	}
}

func TestParseDiscountType(t *testing.T) {
	dt, err := ParseDiscountType("percentage")
	require.NoError(t, err)
	assert.Equal(t, DiscountPercentage, dt)

	dt, err = ParseDiscountType("Flat")
	require.NoError(t, err)
	assert.Equal(t, DiscountFlat, dt)

	_, err = ParseDiscountType("bogus")
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestCoupon_Check_Order(t *testing.T) {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		coupon *Coupon
		order  int64
		want   error
	}{
		// Inactive wins over everything else.
		{"inactive", newTestCoupon(DiscountFlat, 100, 1000000, 0, 1, 1, false, past), 10, ErrCouponNotFound},
		// Expired is reported before exhaustion and minimum order.
		{"expired", newTestCoupon(DiscountFlat, 100, 1000000, 0, 1, 1, true, past), 10, ErrCouponExpired},
		// Exhausted is reported before minimum order.
		{"exhausted", newTestCoupon(DiscountFlat, 100, 1000000, 0, 1, 1, true, future), 10, ErrCouponExhausted},
		{"minimum", newTestCoupon(DiscountFlat, 100, 1000000, 0, 2, 1, true, future), 10, ErrMinimumOrderNotMet},
		{"unlimited usage", newTestCoupon(DiscountFlat, 100, 0, 0, 0, 1000, true, future), 10, nil},
		{"expires exactly now", newTestCoupon(DiscountFlat, 100, 0, 0, 0, 0, true, now), 10, nil},
		{"minimum met exactly", newTestCoupon(DiscountFlat, 100, 1000, 0, 0, 0, true, future), 1000, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coupon.Check(tt.order, now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCoupon_Discount(t *testing.T) {
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name   string
		coupon *Coupon
		order  int64
		want   int64
	}{
		{"percentage capped", newTestCoupon(DiscountPercentage, 10, 0, 100000, 0, 0, true, future), 1689900, 100000},
		{"percentage under cap", newTestCoupon(DiscountPercentage, 10, 0, 100000, 0, 0, true, future), 500000, 50000},
		{"percentage uncapped", newTestCoupon(DiscountPercentage, 25, 0, 0, 0, 0, true, future), 400000, 100000},
		{"percentage rounds half up", newTestCoupon(DiscountPercentage, 15, 0, 0, 0, 0, true, future), 10, 2},
		{"flat", newTestCoupon(DiscountFlat, 50000, 0, 0, 0, 0, true, future), 200000, 50000},
		{"flat capped at order", newTestCoupon(DiscountFlat, 50000, 0, 0, 0, 0, true, future), 30000, 30000},
		{"full percentage", newTestCoupon(DiscountPercentage, 100, 0, 0, 0, 0, true, future), 123456, 123456},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.coupon.Discount(tt.order, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
			assert.LessOrEqual(t, got, tt.order)
		})
	}
}

func TestCoupon_Discount_Rejected(t *testing.T) {
	c := newTestCoupon(DiscountPercentage, 10, 0, 0, 0, 0, true, now.Add(-time.Second))
	d, err := c.Discount(100000, now)
	assert.ErrorIs(t, err, ErrCouponExpired)
	assert.Zero(t, d)
}

func TestCoupon_Exhausted(t *testing.T) {
	assert.False(t, newTestCoupon(DiscountFlat, 1, 0, 0, 0, 99, true, now).Exhausted())
	assert.False(t, newTestCoupon(DiscountFlat, 1, 0, 0, 3, 2, true, now).Exhausted())
	assert.True(t, newTestCoupon(DiscountFlat, 1, 0, 0, 3, 3, true, now).Exhausted())
}

func TestCoupon_Deactivate(t *testing.T) {
	c := newTestCoupon(DiscountFlat, 1, 0, 0, 0, 0, true, now.Add(time.Hour))
	c.Deactivate()
	assert.False(t, c.IsActive())
	_, err := c.Discount(100, now)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCode(" save10\t"))
}
