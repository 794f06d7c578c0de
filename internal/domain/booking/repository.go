package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for Booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// ListByUser returns the bookings of a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// Stats returns revenue from non-cancelled bookings and counts by status (admin).
	Stats(ctx context.Context) (revenue int64, countByStatus map[string]int64, err error)

	// HasOverlap reports whether a non-cancelled booking of the room overlaps stay.
	HasOverlap(ctx context.Context, roomID uuid.UUID, stay Interval) (bool, error)

	// Create persists a new booking. Within one transaction it re-checks
	// availability under a room lock and, when the booking carries a coupon,
	// redeems it with a conditional increment. It fails with
	// ErrRoomUnavailable or coupon.ErrCouponExhausted without side effects.
	Create(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// Void cancels a freshly created booking and returns its coupon redemption.
	Void(ctx context.Context, b *Booking) error

	// ListFinishedStays returns confirmed bookings whose check-out is not after before.
	ListFinishedStays(ctx context.Context, before time.Time, limit int) ([]*Booking, error)
}
