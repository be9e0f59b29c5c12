package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestPublishRoutesByEventType(t *testing.T) {
	ch := &MockChannel{}
	occurred := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	ch.On("PublishWithContext", "marketplace.events", OrderPlaced, false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var got Event
		if err := json.Unmarshal(msg.Body, &got); err != nil {
			return false
		}
		return msg.ContentType == "application/json" && got.OrderID == 12 && got.ActorID == 3
	})).Return(nil)

	p := NewAMQPPublisher(ch, "marketplace.events")
	err := p.Publish(context.Background(), Event{Type: OrderPlaced, OrderID: 12, ActorID: 3, OccurredAt: occurred})
	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestPublishReturnsChannelError(t *testing.T) {
	ch := &MockChannel{}
	ch.On("PublishWithContext", mock.Anything, mock.Anything, false, false, mock.Anything).Return(errors.New("channel closed"))

	p := NewAMQPPublisher(ch, "marketplace.events")
	err := p.Publish(context.Background(), Event{Type: PaymentRecorded})
	assert.EqualError(t, err, "channel closed")
}

func TestCloseWithoutConnection(t *testing.T) {
	ch := &MockChannel{}
	ch.On("Close").Return(nil)

	require.NoError(t, NewAMQPPublisher(ch, "x").Close())
	ch.AssertExpectations(t)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), Event{Type: OrderPlaced}))
}
