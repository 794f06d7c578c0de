package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	addonDomain "github.com/staybook/service-booking/internal/domain/addon"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	couponDomain "github.com/staybook/service-booking/internal/domain/coupon"
	"github.com/staybook/service-booking/internal/domain/pricing"
	roomDomain "github.com/staybook/service-booking/internal/domain/room"
)

func TestRoomRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	rm := seedRoom(t, db)
	got, err := repo.FindByID(ctx, rm.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deluxe King", got.Name)
	assert.Equal(t, int64(500000), got.NightlyRate)
	assert.Equal(t, []string{"wifi", "minibar"}, got.Amenities)
	assert.True(t, got.Active)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, roomDomain.ErrRoomNotFound)
}

func TestCouponRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCouponRepository(db)
	ctx := context.Background()

	c := seedCoupon(t, db, "save10", 5)

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		for _, code := range []string{"SAVE10", "save10", " Save10 "} {
			got, err := repo.FindByCode(ctx, code)
			require.NoError(t, err, code)
			assert.Equal(t, c.ID(), got.ID())
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, couponDomain.ErrCouponNotFound)
		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, couponDomain.ErrCouponNotFound)
	})

	t.Run("active excludes expired and deactivated", func(t *testing.T) {
		expired := couponDomain.Reconstruct(uuid.New(), "OLD", couponDomain.DiscountFlat, 100, 0, 0,
			time.Now().UTC().Add(-time.Hour), 0, 0, true, time.Now().UTC(), time.Now().UTC())
		require.NoError(t, repo.Save(ctx, expired))

		off := seedCoupon(t, db, "OFF", 0)
		off.Deactivate()
		require.NoError(t, repo.Update(ctx, off))

		active, err := repo.FindActive(ctx)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "SAVE10", active[0].Code())
	})

	t.Run("update leaves used count alone", func(t *testing.T) {
		require.NoError(t, db.Model(&CouponModel{}).Where("id = ?", c.ID()).Update("used_count", 3).Error)
		stale, err := repo.FindByID(ctx, c.ID())
		require.NoError(t, err)
		require.NoError(t, db.Model(&CouponModel{}).Where("id = ?", c.ID()).Update("used_count", 4).Error)

		stale.Deactivate()
		require.NoError(t, repo.Update(ctx, stale))

		got, err := repo.FindByID(ctx, c.ID())
		require.NoError(t, err)
		assert.False(t, got.IsActive())
		assert.Equal(t, 4, got.UsedCount())
	})

	t.Run("update missing", func(t *testing.T) {
		ghost, err := couponDomain.NewCoupon("GHOST", couponDomain.DiscountFlat, 100, 0, 0, 0, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Update(ctx, ghost), couponDomain.ErrCouponNotFound)
	})
}

func TestAddOnRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAddOnRepository(db)
	ctx := context.Background()

	for _, tc := range []struct {
		code string
		mode pricing.Mode
	}{
		{"breakfast", pricing.ModePerPersonPerNight},
		{"airport_pickup", pricing.ModeOneTime},
		{"spa", pricing.ModePerPerson},
	} {
		a, err := addonDomain.New(tc.code, "", tc.mode, 10000)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, a))
	}
	require.NoError(t, db.Model(&AddOnModel{}).Where("code = ?", "spa").Update("is_active", false).Error)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "airport_pickup", list[0].Code)
	assert.Equal(t, pricing.ModeOneTime, list[0].Mode)
	assert.Equal(t, "breakfast", list[1].Code)

	found, err := repo.FindActiveByCodes(ctx, []string{"breakfast", "spa", "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, "breakfast")

	empty, err := repo.FindActiveByCodes(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTranslateWriteError(t *testing.T) {
	assert.ErrorIs(t, translateWriteError(&pgconn.PgError{Code: "23P01"}), bookingDomain.ErrRoomUnavailable)
	assert.ErrorIs(t, translateWriteError(&pgconn.PgError{Code: "23505"}), errDuplicate)

	other := errors.New("connection reset")
	assert.Equal(t, other, translateWriteError(other))
	assert.NoError(t, translateWriteError(nil))
}
