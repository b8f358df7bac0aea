package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestPublishPurchaseCompleted(t *testing.T) {
	writer := new(MockWriter)
	p := &Producer{Writer: writer, Topic: "purchase.completed", Logger: logger.Discard()}

	var sent []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil)

	event := models.PurchaseCompletedEvent{
		EventID:     "evt-1",
		PurchaseID:  12,
		CustomerID:  3,
		TotalAmount: decimal.RequireFromString("20.50"),
		Method:      models.PaymentCash,
	}
	require.NoError(t, p.PublishPurchaseCompleted(context.Background(), event))

	require.Len(t, sent, 1)
	assert.Equal(t, "12", string(sent[0].Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(sent[0].Value, &decoded))
	assert.Equal(t, 20.5, decoded["total_amount"])
	assert.Equal(t, "Cash", decoded["payment_method"])
	writer.AssertExpectations(t)
}

func TestPublishPurchaseCompletedWrapsWriterError(t *testing.T) {
	writer := new(MockWriter)
	p := &Producer{Writer: writer, Topic: "purchase.completed"}
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(assert.AnError)

	err := p.PublishPurchaseCompleted(context.Background(), models.PurchaseCompletedEvent{PurchaseID: 1})

	assert.ErrorIs(t, err, assert.AnError)
}
