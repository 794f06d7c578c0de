package events

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/platform/kafka"
)

// PaymentEventHandler applies payment outcomes to bookings.
type PaymentEventHandler interface {
	HandlePaymentEvent(ctx context.Context, eventType string, event booking.PaymentEvent) error
}

// PaymentEventConsumer listens to payment events and updates booking payment state.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	handler  PaymentEventHandler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new consumer for payment events.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	handler PaymentEventHandler,
	logger *zap.Logger,
) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, booking.TopicPaymentEvents, logger),
		handler:  handler,
		logger:   logger,
	}
}

// Start begins consuming payment events. It blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// handleMessage decodes one message and hands it to the handler. Malformed
// messages are logged and skipped.
func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil
	}

	switch ce.Type {
	case booking.EventPaymentCaptured, booking.EventPaymentFailed:
	default:
		c.logger.Debug("ignoring unhandled payment event type", zap.String("type", ce.Type))
		return nil
	}

	var event booking.PaymentEvent
	if err := ce.ParseData(&event); err != nil {
		c.logger.Error("failed to parse payment event data",
			zap.String("type", ce.Type),
			zap.String("id", ce.ID),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("received payment event",
		zap.String("type", ce.Type),
		zap.String("id", ce.ID),
		zap.String("booking_id", event.BookingID.String()),
	)
	err = c.handler.HandlePaymentEvent(ctx, ce.Type, event)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}
