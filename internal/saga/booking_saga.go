package saga

import (
	"context"

	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/platform/kafka"
)

const eventSource = "service-booking"

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingSagaService orchestrates booking workflows that span the database
// and the event bus.
type BookingSagaService struct {
	repo      booking.Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingSagaService creates a new BookingSagaService.
func NewBookingSagaService(repo booking.Repository, publisher EventPublisher, logger *zap.Logger) *BookingSagaService {
	return &BookingSagaService{repo: repo, publisher: publisher, logger: logger}
}

// CreateBookingSaga persists b and announces it. If the announcement fails
// the booking is voided and its coupon redemption released.
func (s *BookingSagaService) CreateBookingSaga(ctx context.Context, b *booking.Booking) error {
	sg := NewSaga("create_booking", s.logger)

	sg.AddStep(SagaStep{
		Name: "persist_booking",
		Execute: func(ctx context.Context) error {
			return s.repo.Create(ctx, b)
		},
		Compensate: func(ctx context.Context) error {
			if err := b.Void(); err != nil {
				return err
			}
			b.IncrementVersion()
			return s.repo.Void(ctx, b)
		},
	})

	sg.AddStep(SagaStep{
		Name: "publish_booking_created",
		Execute: func(ctx context.Context) error {
			ce, err := kafka.NewCloudEvent(eventSource, booking.EventBookingCreated, booking.NewCreatedEvent(b))
			if err != nil {
				return err
			}
			return s.publisher.PublishEvent(ctx, booking.TopicBookingEvents, ce.WithSubject(b.ID().String()))
		},
	})

	if err := sg.Execute(ctx); err != nil {
		return err
	}
	s.logger.Info("booking created",
		zap.String("booking_id", b.ID().String()),
		zap.String("room_id", b.RoomID().String()),
		zap.String("status", string(b.Status())),
	)
	return nil
}

// PublishStatusChange announces a transition. Failures are logged only; the
// transition is already committed.
func (s *BookingSagaService) PublishStatusChange(ctx context.Context, b *booking.Booking, event booking.StatusChangedEvent) {
	eventType := booking.EventBookingStatusChanged
	if b.Status() == booking.StatusCancelled {
		eventType = booking.EventBookingCancelled
	}
	ce, err := kafka.NewCloudEvent(eventSource, eventType, event)
	if err == nil {
		err = s.publisher.PublishEvent(ctx, booking.TopicBookingEvents, ce.WithSubject(b.ID().String()))
	}
	if err != nil {
		s.logger.Error("failed to publish booking event",
			zap.String("booking_id", b.ID().String()),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}
