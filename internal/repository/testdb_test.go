package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	couponDomain "github.com/staybook/service-booking/internal/domain/coupon"
	"github.com/staybook/service-booking/internal/domain/pricing"
	roomDomain "github.com/staybook/service-booking/internal/domain/room"
)

// newTestDB opens an in-memory SQLite database with the full schema. A single
// connection keeps every query on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func seedRoom(t *testing.T, db *gorm.DB) *roomDomain.Room {
	t.Helper()
	rm, err := roomDomain.New("Deluxe King", "deluxe", 500000, 2, []string{"wifi", " ", "minibar"})
	require.NoError(t, err)
	require.NoError(t, NewGormRoomRepository(db).Save(t.Context(), rm))
	return rm
}

func seedCoupon(t *testing.T, db *gorm.DB, code string, limit int) *couponDomain.Coupon {
	t.Helper()
	c, err := couponDomain.NewCoupon(code, couponDomain.DiscountPercentage, 10, 0, 100000, limit, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, NewGormCouponRepository(db).Save(t.Context(), c))
	return c
}

func stay(t *testing.T, in, out string) bookingDomain.Interval {
	t.Helper()
	i, err := bookingDomain.ParseInterval(in, out)
	require.NoError(t, err)
	return i
}

func newBooking(t *testing.T, roomID uuid.UUID, in, out string, c *couponDomain.Coupon) *bookingDomain.Booking {
	t.Helper()
	s := stay(t, in, out)
	guests := pricing.GuestCounts{Adults: 2}
	q, err := pricing.Compute(pricing.Input{
		NightlyRate: 500000,
		Guests:      guests,
		Nights:      s.Nights(),
		AddOns:      []pricing.Selection{{Code: "airport_pickup", Name: "Airport pickup", Mode: pricing.ModeOneTime, UnitPrice: 189900}},
	}, time.Now())
	require.NoError(t, err)

	var couponID *uuid.UUID
	if c != nil {
		id := c.ID()
		couponID = &id
		q.CouponCode = c.Code()
	}
	return bookingDomain.New(roomID, uuid.New(), s, guests, q, couponID, bookingDomain.PaymentPending, "INR")
}
