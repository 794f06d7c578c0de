package booking

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types published on TopicBookingEvents.
const (
	EventBookingCreated       = "booking.created"
	EventBookingCancelled     = "booking.cancelled"
	EventBookingStatusChanged = "booking.status_changed"
)

// Event types consumed from TopicPaymentEvents.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// CreatedEvent is published after a booking is persisted.
type CreatedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	RoomID        uuid.UUID `json:"room_id"`
	UserID        uuid.UUID `json:"user_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalPrice    int64     `json:"total_price"`
	Currency      string    `json:"currency"`
	CouponCode    string    `json:"coupon_code,omitempty"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// StatusChangedEvent is published for cancellations and other transitions.
type StatusChangedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	RoomID    uuid.UUID `json:"room_id"`
	UserID    uuid.UUID `json:"user_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy uuid.UUID `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// PaymentEvent is the payload consumed from the payment service.
type PaymentEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	PaymentID string    `json:"payment_id"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason,omitempty"`
}

// NewCreatedEvent builds the payload for a new booking.
func NewCreatedEvent(b *Booking) CreatedEvent {
	return CreatedEvent{
		BookingID:     b.ID(),
		RoomID:        b.RoomID(),
		UserID:        b.UserID(),
		CheckIn:       b.Stay().CheckIn,
		CheckOut:      b.Stay().CheckOut,
		TotalPrice:    b.Total(),
		Currency:      b.Currency(),
		CouponCode:    b.CouponCode(),
		Status:        string(b.Status()),
		PaymentStatus: string(b.PaymentStatus()),
		CreatedAt:     b.CreatedAt(),
	}
}

// NewStatusChangedEvent builds the payload for a transition from -> b.Status().
func NewStatusChangedEvent(b *Booking, from Status, by uuid.UUID) StatusChangedEvent {
	return StatusChangedEvent{
		BookingID: b.ID(),
		RoomID:    b.RoomID(),
		UserID:    b.UserID(),
		From:      string(from),
		To:        string(b.Status()),
		ChangedBy: by,
		ChangedAt: b.UpdatedAt(),
	}
}
