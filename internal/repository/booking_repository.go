package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	couponDomain "github.com/staybook/service-booking/internal/domain/coupon"
	"github.com/staybook/service-booking/internal/domain/pricing"
	roomDomain "github.com/staybook/service-booking/internal/domain/room"
	"github.com/staybook/service-booking/internal/platform/apperror"
)

var errBookingVersionConflict = apperror.NewConflictError("booking was modified by another transaction")

// GormBookingRepository implements booking.Repository using GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking with its add-on lines.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingDomain.ErrBookingNotFound
		}
		return nil, err
	}
	bookings, err := r.withLines(ctx, []BookingModel{model})
	if err != nil {
		return nil, err
	}
	return bookings[0], nil
}

// ListByUser returns a user's bookings, newest first.
func (r *GormBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return r.withLines(ctx, models)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	bookings, err := r.withLines(ctx, models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Stats returns booked revenue and booking counts by status (admin).
func (r *GormBookingRepository) Stats(ctx context.Context) (int64, map[string]int64, error) {
	var revenue int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("status <> ?", string(bookingDomain.StatusCancelled)).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&revenue).Error; err != nil {
		return 0, nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return 0, nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return revenue, counts, nil
}

// HasOverlap reports whether a non-cancelled booking of the room overlaps stay.
func (r *GormBookingRepository) HasOverlap(ctx context.Context, roomID uuid.UUID, stay bookingDomain.Interval) (bool, error) {
	return hasOverlap(r.db.WithContext(ctx), roomID, stay)
}

// hasOverlap applies the half-open interval test: an existing stay conflicts
// when it starts before the requested check-out and ends after the requested
// check-in. Stays that merely touch do not conflict.
func hasOverlap(db *gorm.DB, roomID uuid.UUID, stay bookingDomain.Interval) (bool, error) {
	var count int64
	err := db.Model(&BookingModel{}).
		Where("room_id = ? AND status <> ? AND check_in < ? AND check_out > ?",
			roomID, string(bookingDomain.StatusCancelled), stay.CheckOut, stay.CheckIn).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the booking in a single transaction that locks the room row,
// re-checks availability and redeems the coupon. Concurrent creators for the
// same room serialize on the room lock.
func (r *GormBookingRepository) Create(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	lines := toLineModels(b)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room RoomModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", model.RoomID).
			First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return roomDomain.ErrRoomNotFound
			}
			return err
		}

		overlap, err := hasOverlap(tx, model.RoomID, b.Stay())
		if err != nil {
			return err
		}
		if overlap {
			return bookingDomain.ErrRoomUnavailable
		}

		if model.CouponID != nil {
			if err := redeemCoupon(tx, *model.CouponID, time.Now().UTC()); err != nil {
				return err
			}
		}

		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateWriteError(err)
}

// redeemCoupon increments used_count only while the coupon is still
// redeemable. When no row is updated the current row is inspected to report
// the reason.
func redeemCoupon(tx *gorm.DB, couponID uuid.UUID, now time.Time) error {
	result := tx.Model(&CouponModel{}).
		Where("id = ? AND is_active = ? AND expires_at >= ? AND (usage_limit = 0 OR used_count < usage_limit)",
			couponID, true, now).
		UpdateColumns(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var model CouponModel
	if err := tx.Where("id = ?", couponID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return couponDomain.ErrCouponNotFound
		}
		return err
	}
	c := toCouponDomain(&model)
	if err := c.Check(c.MinOrderValue(), now); err != nil {
		return err
	}
	return couponDomain.ErrCouponExhausted
}

// Update persists status changes with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	return updateBooking(r.db.WithContext(ctx), b)
}

func updateBooking(db *gorm.DB, b *bookingDomain.Booking) error {
	previousVersion := b.Version() - 1

	result := db.Model(&BookingModel{}).
		Where("id = ? AND version = ?", b.ID(), previousVersion).
		Updates(map[string]interface{}{
			"status":         string(b.Status()),
			"payment_status": string(b.PaymentStatus()),
			"cancelled_at":   b.CancelledAt(),
			"version":        b.Version(),
			"updated_at":     b.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errBookingVersionConflict
	}
	return nil
}

// Void persists a compensating cancellation and gives the coupon redemption back.
func (r *GormBookingRepository) Void(ctx context.Context, b *bookingDomain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateBooking(tx, b); err != nil {
			return err
		}
		if b.CouponID() == nil {
			return nil
		}
		return tx.Model(&CouponModel{}).
			Where("id = ? AND used_count > 0", *b.CouponID()).
			UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
	})
}

// ListFinishedStays returns confirmed bookings whose check-out is at or before the given time.
func (r *GormBookingRepository) ListFinishedStays(ctx context.Context, before time.Time, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND check_out <= ?", string(bookingDomain.StatusConfirmed), before.UTC()).
		Order("check_out").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return r.withLines(ctx, models)
}

// withLines loads the add-on lines of the given bookings in one query.
func (r *GormBookingRepository) withLines(ctx context.Context, models []BookingModel) ([]*bookingDomain.Booking, error) {
	if len(models) == 0 {
		return []*bookingDomain.Booking{}, nil
	}
	ids := make([]uuid.UUID, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}

	var lineModels []BookingAddOnModel
	if err := r.db.WithContext(ctx).
		Where("booking_id IN ?", ids).
		Order("code").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	byBooking := make(map[uuid.UUID][]pricing.Line, len(models))
	for i := range lineModels {
		lm := &lineModels[i]
		mode, err := pricing.ParseMode(lm.Mode)
		if err != nil {
			return nil, err
		}
		byBooking[lm.BookingID] = append(byBooking[lm.BookingID], pricing.Line{
			Code:      lm.Code,
			Name:      lm.Name,
			Mode:      mode,
			UnitPrice: lm.UnitPrice,
			Quantity:  lm.Quantity,
			Total:     lm.LineTotal,
		})
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i], byBooking[models[i].ID])
	}
	return bookings, nil
}

func toBookingModel(b *bookingDomain.Booking) BookingModel {
	g := b.Guests()
	return BookingModel{
		ID:            b.ID(),
		RoomID:        b.RoomID(),
		UserID:        b.UserID(),
		CheckIn:       b.Stay().CheckIn,
		CheckOut:      b.Stay().CheckOut,
		Adults:        g.Adults,
		Children:      g.Children,
		YoungChildren: g.YoungChildren,
		CouponID:      b.CouponID(),
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

func toLineModels(b *bookingDomain.Booking) []BookingAddOnModel {
	lines := make([]BookingAddOnModel, 0, len(b.AddOns()))
	for _, l := range b.AddOns() {
		lines = append(lines, BookingAddOnModel{
			ID:        uuid.New(),
			BookingID: b.ID(),
			Code:      l.Code,
			Name:      l.Name,
			Mode:      l.Mode.String(),
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.Total,
		})
	}
	return lines
}

func toBookingDomain(m *BookingModel, lines []pricing.Line) *bookingDomain.Booking {
	return bookingDomain.Reconstitute(
		m.ID, m.RoomID, m.UserID,
		bookingDomain.Interval{CheckIn: m.CheckIn.UTC(), CheckOut: m.CheckOut.UTC()},
		pricing.GuestCounts{Adults: m.Adults, Children: m.Children, YoungChildren: m.YoungChildren},
		lines,
		m.CouponID, m.CouponCode,
		m.BasePrice, m.AddOnTotal, m.Discount, m.TotalPrice,
		m.Currency,
		bookingDomain.Status(m.Status),
		bookingDomain.PaymentStatus(m.PaymentStatus),
		m.CancelledAt,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
