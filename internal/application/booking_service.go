package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	addonDomain "github.com/staybook/service-booking/internal/domain/addon"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	couponDomain "github.com/staybook/service-booking/internal/domain/coupon"
	"github.com/staybook/service-booking/internal/domain/pricing"
	roomDomain "github.com/staybook/service-booking/internal/domain/room"
	"github.com/staybook/service-booking/internal/platform/apperror"
)

// finishedStaysBatch bounds one completion sweep.
const finishedStaysBatch = 100

var (
	errInvalidRoomID       = apperror.New(apperror.KindInvalid, "invalid room id")
	errPaymentStatusForbid = apperror.New(apperror.KindForbidden, "only admins may set the payment status")
	errDuplicateAddOn      = apperror.New(apperror.KindInvalid, "add-on selected more than once")
)

// BookingSagas runs the multi-step booking workflows.
type BookingSagas interface {
	CreateBookingSaga(ctx context.Context, b *bookingDomain.Booking) error
	PublishStatusChange(ctx context.Context, b *bookingDomain.Booking, event bookingDomain.StatusChangedEvent)
}

// BookingService implements availability, pricing and the booking lifecycle.
type BookingService struct {
	bookings bookingDomain.Repository
	rooms    roomDomain.Repository
	addOns   addonDomain.Repository
	coupons  couponDomain.Repository
	sagas    BookingSagas
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	rooms roomDomain.Repository,
	addOns addonDomain.Repository,
	coupons couponDomain.Repository,
	sagas BookingSagas,
	currency string,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		addOns:   addOns,
		coupons:  coupons,
		sagas:    sagas,
		currency: currency,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckAvailability reports whether the room is free for [checkIn, checkOut).
func (s *BookingService) CheckAvailability(ctx context.Context, req CheckAvailabilityRequest) (*AvailabilityDTO, error) {
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, errInvalidRoomID
	}
	stay, err := bookingDomain.ParseInterval(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if _, err := s.rooms.FindByID(ctx, roomID); err != nil {
		return nil, err
	}

	overlap, err := s.bookings.HasOverlap(ctx, roomID, stay)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if overlap {
		return &AvailabilityDTO{Available: false, Message: bookingDomain.ErrRoomUnavailable.Message}, nil
	}
	return &AvailabilityDTO{Available: true, Message: "room is available for the selected dates"}, nil
}

// pricedStay is a validated stay with its quote.
type pricedStay struct {
	room     *roomDomain.Room
	stay     bookingDomain.Interval
	guests   pricing.GuestCounts
	quote    pricing.Quote
	couponID *uuid.UUID
}

// Quote prices a stay without reserving anything.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (*QuoteDTO, error) {
	priced, err := s.price(ctx, req)
	if err != nil {
		return nil, err
	}
	return &QuoteDTO{
		RoomID:   priced.room.ID,
		CheckIn:  priced.stay.CheckIn.Format(dateLayout),
		CheckOut: priced.stay.CheckOut.Format(dateLayout),
		Guests:   priced.guests,
		Currency: s.currency,
		Quote:    priced.quote,
	}, nil
}

func (s *BookingService) price(ctx context.Context, req QuoteRequest) (*pricedStay, error) {
	roomID, err := uuid.Parse(req.Room)
	if err != nil {
		return nil, errInvalidRoomID
	}
	stay, err := bookingDomain.ParseInterval(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	rm, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !rm.Active {
		return nil, roomDomain.ErrRoomInactive
	}

	guests := pricing.GuestCounts{
		Adults:        req.Adults,
		Children:      req.Children,
		YoungChildren: req.YoungChildren,
	}
	if err := guests.Validate(rm.Capacity); err != nil {
		return nil, err
	}

	selections, err := s.resolveAddOns(ctx, req.AddOns)
	if err != nil {
		return nil, err
	}

	in := pricing.Input{
		NightlyRate: rm.NightlyRate,
		Guests:      guests,
		Nights:      stay.Nights(),
		AddOns:      selections,
	}
	var couponID *uuid.UUID
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		c, err := s.coupons.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		id := c.ID()
		couponID = &id
		in.Coupon = c
	}

	quote, err := pricing.Compute(in, s.now())
	if err != nil {
		return nil, err
	}
	return &pricedStay{room: rm, stay: stay, guests: guests, quote: quote, couponID: couponID}, nil
}

func (s *BookingService) resolveAddOns(ctx context.Context, reqs []AddOnSelectionRequest) ([]pricing.Selection, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	codes := make([]string, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		code := addonDomain.NormalizeCode(r.Code)
		if seen[code] {
			return nil, fmt.Errorf("%w: %s", errDuplicateAddOn, code)
		}
		seen[code] = true
		codes = append(codes, code)
	}

	catalog, err := s.addOns.FindActiveByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to load add-ons: %w", err)
	}

	selections := make([]pricing.Selection, 0, len(reqs))
	for i, r := range reqs {
		a, ok := catalog[codes[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %s", addonDomain.ErrAddOnNotFound, codes[i])
		}
		selections = append(selections, a.Select(r.Quantity))
	}
	return selections, nil
}

// CreateBooking checks availability, prices the stay and persists the
// booking together with its coupon redemption.
func (s *BookingService) CreateBooking(ctx context.Context, actor bookingDomain.Actor, req CreateBookingRequest) (*BookingDTO, error) {
	paymentStatus := bookingDomain.PaymentPending
	if req.PaymentStatus != "" {
		ps, err := bookingDomain.ParsePaymentStatus(strings.ToLower(strings.TrimSpace(req.PaymentStatus)))
		if err != nil {
			return nil, err
		}
		if ps != bookingDomain.PaymentPending && !actor.Admin {
			return nil, errPaymentStatusForbid
		}
		paymentStatus = ps
	}

	priced, err := s.price(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	overlap, err := s.bookings.HasOverlap(ctx, priced.room.ID, priced.stay)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if overlap {
		return nil, bookingDomain.ErrRoomUnavailable
	}

	if req.TotalPrice != nil && *req.TotalPrice != priced.quote.Total {
		return nil, fmt.Errorf("%w: submitted %d, quoted %d", bookingDomain.ErrPriceMismatch, *req.TotalPrice, priced.quote.Total)
	}

	b := bookingDomain.New(priced.room.ID, actor.UserID, priced.stay, priced.guests, priced.quote, priced.couponID, paymentStatus, s.currency)
	if err := s.sagas.CreateBookingSaga(ctx, b); err != nil {
		return nil, err
	}
	return toBookingDTO(b), nil
}

// GetBooking returns a booking visible to the actor.
func (s *BookingService) GetBooking(ctx context.Context, actor bookingDomain.Actor, id uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && !b.IsOwnedBy(actor.UserID) {
		return nil, bookingDomain.ErrNotAuthorized
	}
	return toBookingDTO(b), nil
}

// ListMyBookings returns the actor's bookings.
func (s *BookingService) ListMyBookings(ctx context.Context, userID uuid.UUID) ([]*BookingDTO, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// ListAllBookings returns a page of bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]*BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns revenue and status counts (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	revenue, counts, err := s.bookings.Stats(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &BookingStatsDTO{
		Revenue:       revenue,
		Currency:      s.currency,
		TotalBookings: total,
		CountByStatus: counts,
	}, nil
}

// CancelBooking cancels a booking on behalf of its owner or an admin.
func (s *BookingService) CancelBooking(ctx context.Context, actor bookingDomain.Actor, id uuid.UUID) (*BookingDTO, error) {
	return s.transition(ctx, actor.UserID, id, func(b *bookingDomain.Booking) error {
		return b.Cancel(actor)
	})
}

// ChangeStatus applies an admin-driven status transition.
func (s *BookingService) ChangeStatus(ctx context.Context, actor bookingDomain.Actor, id uuid.UUID, req UpdateStatusRequest) (*BookingDTO, error) {
	to, err := bookingDomain.ParseStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor.UserID, id, func(b *bookingDomain.Booking) error {
		return b.ChangeStatus(actor, to)
	})
}

// UpdatePaymentStatus records a payment outcome reported by an admin.
func (s *BookingService) UpdatePaymentStatus(ctx context.Context, actor bookingDomain.Actor, id uuid.UUID, req UpdatePaymentRequest) (*BookingDTO, error) {
	if !actor.Admin {
		return nil, bookingDomain.ErrNotAuthorized
	}
	ps, err := bookingDomain.ParsePaymentStatus(strings.ToLower(strings.TrimSpace(req.PaymentStatus)))
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor.UserID, id, func(b *bookingDomain.Booking) error {
		return b.MarkPayment(ps)
	})
}

// HandlePaymentEvent applies a payment outcome published by the payment
// service. Replayed events are ignored.
func (s *BookingService) HandlePaymentEvent(ctx context.Context, eventType string, event bookingDomain.PaymentEvent) error {
	var ps bookingDomain.PaymentStatus
	switch eventType {
	case bookingDomain.EventPaymentCaptured:
		ps = bookingDomain.PaymentPaid
	case bookingDomain.EventPaymentFailed:
		ps = bookingDomain.PaymentFailed
	default:
		return nil
	}

	b, err := s.bookings.FindByID(ctx, event.BookingID)
	if err != nil {
		if errors.Is(err, bookingDomain.ErrBookingNotFound) {
			s.logger.Warn("payment event for unknown booking",
				zap.String("booking_id", event.BookingID.String()),
				zap.String("payment_id", event.PaymentID),
			)
			return nil
		}
		return err
	}
	if b.PaymentStatus() == ps || b.PaymentStatus() == bookingDomain.PaymentPaid {
		return nil
	}

	from := b.Status()
	if err := b.MarkPayment(ps); err != nil {
		return err
	}
	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.logger.Info("booking payment updated",
		zap.String("booking_id", b.ID().String()),
		zap.String("payment_status", string(ps)),
		zap.String("payment_id", event.PaymentID),
	)
	if from != b.Status() {
		s.sagas.PublishStatusChange(ctx, b, bookingDomain.NewStatusChangedEvent(b, from, uuid.Nil))
	}
	return nil
}

// CompleteFinishedStays moves confirmed bookings whose check-out has passed
// to completed. Bookings changed concurrently are skipped until the next run.
func (s *BookingService) CompleteFinishedStays(ctx context.Context) ([]*BookingDTO, error) {
	bookings, err := s.bookings.ListFinishedStays(ctx, s.now(), finishedStaysBatch)
	if err != nil {
		return nil, err
	}

	completed := make([]*BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		if err := b.Complete(); err != nil {
			continue
		}
		b.IncrementVersion()
		if err := s.bookings.Update(ctx, b); err != nil {
			s.logger.Warn("failed to complete booking",
				zap.String("booking_id", b.ID().String()),
				zap.Error(err),
			)
			continue
		}
		s.sagas.PublishStatusChange(ctx, b, bookingDomain.NewStatusChangedEvent(b, bookingDomain.StatusConfirmed, uuid.Nil))
		completed = append(completed, toBookingDTO(b))
	}
	return completed, nil
}

// transition loads a booking, applies change, and persists it with
// optimistic locking.
func (s *BookingService) transition(ctx context.Context, by, id uuid.UUID, change func(*bookingDomain.Booking) error) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := b.Status()
	if err := change(b); err != nil {
		return nil, err
	}
	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	if from != b.Status() {
		s.logger.Info("booking status changed",
			zap.String("booking_id", b.ID().String()),
			zap.String("from", string(from)),
			zap.String("to", string(b.Status())),
			zap.String("by", by.String()),
		)
		s.sagas.PublishStatusChange(ctx, b, bookingDomain.NewStatusChangedEvent(b, from, by))
	}
	return toBookingDTO(b), nil
}
