package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	addonDomain "github.com/staybook/service-booking/internal/domain/addon"
	couponDomain "github.com/staybook/service-booking/internal/domain/coupon"
	"github.com/staybook/service-booking/internal/domain/pricing"
	roomDomain "github.com/staybook/service-booking/internal/domain/room"
	"github.com/staybook/service-booking/internal/platform/kafka"
	"github.com/staybook/service-booking/internal/repository"
	"github.com/staybook/service-booking/internal/saga"
)

var errBrokerDown = errors.New("broker unavailable")

// recordingPublisher captures published events and can be told to fail.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	fail   bool
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errBrokerDown
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	bookings  *BookingService
	coupons   *CouponService
	catalog   *CatalogService
	publisher *recordingPublisher
	room      *roomDomain.Room
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(repository.AllModels()...))

	log := zap.NewNop()
	bookingRepo := repository.NewGormBookingRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	addOnRepo := repository.NewGormAddOnRepository(db)
	couponRepo := repository.NewGormCouponRepository(db)
	pub := &recordingPublisher{}

	env := &testEnv{
		db:        db,
		bookings:  NewBookingService(bookingRepo, roomRepo, addOnRepo, couponRepo, saga.NewBookingSagaService(bookingRepo, pub, log), "INR", log),
		coupons:   NewCouponService(couponRepo, log),
		catalog:   NewCatalogService(roomRepo, addOnRepo, log),
		publisher: pub,
	}

	ctx := context.Background()
	rm, err := roomDomain.New("Deluxe King", "deluxe", 500000, 3, []string{"wifi"})
	require.NoError(t, err)
	require.NoError(t, roomRepo.Save(ctx, rm))
	env.room = rm

	pickup, err := addonDomain.New("airport_pickup", "Airport pickup", pricing.ModeOneTime, 189900)
	require.NoError(t, err)
	require.NoError(t, addOnRepo.Save(ctx, pickup))
	breakfast, err := addonDomain.New("breakfast", "Breakfast", pricing.ModePerPersonPerNight, 50000)
	require.NoError(t, err)
	require.NoError(t, addOnRepo.Save(ctx, breakfast))

	save10, err := couponDomain.NewCoupon("SAVE10", couponDomain.DiscountPercentage, 10, 0, 100000, 0, time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, couponRepo.Save(ctx, save10))

	return env
}

func (e *testEnv) request(in, out string) CreateBookingRequest {
	return CreateBookingRequest{QuoteRequest: QuoteRequest{
		Room:     e.room.ID.String(),
		CheckIn:  in,
		CheckOut: out,
		Adults:   2,
	}}
}
