package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/domain/booking"
	"github.com/staybook/service-booking/internal/platform/kafka"
)

type mockPaymentHandler struct {
	mock.Mock
}

func (m *mockPaymentHandler) HandlePaymentEvent(ctx context.Context, eventType string, event booking.PaymentEvent) error {
	return m.Called(ctx, eventType, event).Error(0)
}

func newTestConsumer(h PaymentEventHandler) *PaymentEventConsumer {
	return &PaymentEventConsumer{handler: h, logger: zap.NewNop()}
}

func message(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("service-payment", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestHandleMessage_PaymentCaptured(t *testing.T) {
	h := &mockPaymentHandler{}
	c := newTestConsumer(h)
	event := booking.PaymentEvent{BookingID: uuid.New(), PaymentID: "pay_1", Amount: 1589900}
	h.On("HandlePaymentEvent", mock.Anything, booking.EventPaymentCaptured, event).Return(nil).Once()

	require.NoError(t, c.handleMessage(context.Background(), message(t, booking.EventPaymentCaptured, event)))
	h.AssertExpectations(t)
}

func TestHandleMessage_HandlerErrorIsRetried(t *testing.T) {
	h := &mockPaymentHandler{}
	c := newTestConsumer(h)
	dbErr := errors.New("db down")
	h.On("HandlePaymentEvent", mock.Anything, booking.EventPaymentFailed, mock.Anything).Return(dbErr)

	err := c.handleMessage(context.Background(), message(t, booking.EventPaymentFailed, booking.PaymentEvent{BookingID: uuid.New()}))
	assert.ErrorIs(t, err, dbErr)
}

func TestHandleMessage_SkipsUnusableMessages(t *testing.T) {
	h := &mockPaymentHandler{}
	c := newTestConsumer(h)
	ctx := context.Background()

	assert.NoError(t, c.handleMessage(ctx, kafkago.Message{Value: []byte("not json")}))
	assert.NoError(t, c.handleMessage(ctx, message(t, "payment.refunded", booking.PaymentEvent{BookingID: uuid.New()})))
	assert.NoError(t, c.handleMessage(ctx, message(t, booking.EventPaymentCaptured, "just a string")))

	h.AssertNotCalled(t, "HandlePaymentEvent", mock.Anything, mock.Anything, mock.Anything)
}
