package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/domain/pricing"
	"github.com/staybook/service-booking/internal/platform/apperror"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// PaymentStatus is tracked independently of Status.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

var (
	ErrBookingNotFound   = apperror.New(apperror.KindNotFound, "booking not found")
	ErrRoomUnavailable   = apperror.New(apperror.KindConflict, "room is not available for the selected dates")
	ErrNotAuthorized     = apperror.New(apperror.KindUnauthorized, "not authorized to modify this booking")
	ErrInvalidTransition = apperror.New(apperror.KindInvalidState, "invalid booking status transition")
	ErrInvalidStatus     = apperror.New(apperror.KindInvalid, "unknown booking status")
	ErrPriceMismatch     = apperror.New(apperror.KindInvalid, "price mismatch")
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// ParsePaymentStatus validates a payment status name.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch ps := PaymentStatus(s); ps {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return ps, nil
	}
	return "", ErrInvalidStatus
}

// Actor identifies who is acting on a booking.
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

// Booking is the aggregate root for room reservations.
type Booking struct {
	id            uuid.UUID
	roomID        uuid.UUID
	userID        uuid.UUID
	stay          Interval
	guests        pricing.GuestCounts
	addOns        []pricing.Line
	couponID      *uuid.UUID
	couponCode    string
	basePrice     int64
	addOnTotal    int64
	discount      int64
	total         int64
	currency      string
	status        Status
	paymentStatus PaymentStatus
	cancelledAt   *time.Time
	version       int64
	createdAt     time.Time
	updatedAt     time.Time
}

// New creates a booking from a computed quote. A paid booking starts
// confirmed, anything else starts pending.
func New(roomID, userID uuid.UUID, stay Interval, guests pricing.GuestCounts, quote pricing.Quote, couponID *uuid.UUID, paymentStatus PaymentStatus, currency string) *Booking {
	now := time.Now().UTC()
	status := StatusPending
	if paymentStatus == PaymentPaid {
		status = StatusConfirmed
	}
	if paymentStatus == "" {
		paymentStatus = PaymentPending
	}
	return &Booking{
		id:            uuid.New(),
		roomID:        roomID,
		userID:        userID,
		stay:          stay,
		guests:        guests,
		addOns:        quote.AddOns,
		couponID:      couponID,
		couponCode:    quote.CouponCode,
		basePrice:     quote.BasePrice,
		addOnTotal:    quote.AddOnTotal,
		discount:      quote.Discount,
		total:         quote.Total,
		currency:      currency,
		status:        status,
		paymentStatus: paymentStatus,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) RoomID() uuid.UUID            { return b.roomID }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) Stay() Interval               { return b.stay }
func (b *Booking) Guests() pricing.GuestCounts  { return b.guests }
func (b *Booking) AddOns() []pricing.Line       { return b.addOns }
func (b *Booking) CouponID() *uuid.UUID         { return b.couponID }
func (b *Booking) CouponCode() string           { return b.couponCode }
func (b *Booking) BasePrice() int64             { return b.basePrice }
func (b *Booking) AddOnTotal() int64            { return b.addOnTotal }
func (b *Booking) Discount() int64              { return b.discount }
func (b *Booking) Total() int64                 { return b.total }
func (b *Booking) Currency() string             { return b.currency }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) CancelledAt() *time.Time      { return b.cancelledAt }
func (b *Booking) Version() int64               { return b.version }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// --- Behavior / State Transitions ---

// IsOwnedBy reports whether the booking belongs to userID.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// Cancel cancels the booking on behalf of its owner or an admin.
func (b *Booking) Cancel(actor Actor) error {
	if !actor.Admin && !b.IsOwnedBy(actor.UserID) {
		return ErrNotAuthorized
	}
	return b.transitionTo(StatusCancelled)
}

// ChangeStatus applies an admin-driven status transition.
func (b *Booking) ChangeStatus(actor Actor, to Status) error {
	if !actor.Admin {
		return ErrNotAuthorized
	}
	return b.transitionTo(to)
}

// Complete marks a confirmed stay as finished.
func (b *Booking) Complete() error {
	return b.transitionTo(StatusCompleted)
}

// Void cancels the booking as a system compensation, bypassing actor checks.
func (b *Booking) Void() error {
	return b.transitionTo(StatusCancelled)
}

// MarkPayment records a payment outcome. A payment arriving for a pending
// booking confirms it.
func (b *Booking) MarkPayment(ps PaymentStatus) error {
	if _, err := ParsePaymentStatus(string(ps)); err != nil {
		return err
	}
	b.paymentStatus = ps
	b.updatedAt = time.Now().UTC()
	if ps == PaymentPaid && b.status == StatusPending {
		return b.transitionTo(StatusConfirmed)
	}
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

func (b *Booking) transitionTo(to Status) error {
	if !CanTransition(b.status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.status, to)
	}
	now := time.Now().UTC()
	b.status = to
	b.updatedAt = now
	if to == StatusCancelled {
		b.cancelledAt = &now
	}
	return nil
}

// --- Reconstitution (used by repository to rebuild from persistence) ---

// Reconstitute rebuilds a Booking from persisted data.
func Reconstitute(
	id, roomID, userID uuid.UUID,
	stay Interval,
	guests pricing.GuestCounts,
	addOns []pricing.Line,
	couponID *uuid.UUID,
	couponCode string,
	basePrice, addOnTotal, discount, total int64,
	currency string,
	status Status,
	paymentStatus PaymentStatus,
	cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		roomID:        roomID,
		userID:        userID,
		stay:          stay,
		guests:        guests,
		addOns:        addOns,
		couponID:      couponID,
		couponCode:    couponCode,
		basePrice:     basePrice,
		addOnTotal:    addOnTotal,
		discount:      discount,
		total:         total,
		currency:      currency,
		status:        status,
		paymentStatus: paymentStatus,
		cancelledAt:   cancelledAt,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}
