package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func sampleEvent() domain.LedgerEvent {
	return domain.LedgerEvent{
		EventID: "evt-1",
		Type:    domain.EventTransactionCreated,
		UserID:  "user-1",
		Transactions: []domain.Transaction{
			{TransactionID: "t1", UserID: "user-1", AccountID: "a1", Amount: 1250, TransactionType: domain.Expense},
		},
		Balances:   map[string]int64{"a1": -1250},
		OccurredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := new(MockWriter)
	p := &KafkaPublisher{writer: writer}
	event := sampleEvent()

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "user-1" {
			return false
		}
		var decoded domain.LedgerEvent
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return decoded.EventID == "evt-1" && decoded.Balances["a1"] == -1250 &&
			string(msgs[0].Headers[0].Value) == string(domain.EventTransactionCreated)
	})).Return(nil).Once()

	require.NoError(t, p.Publish(context.Background(), event))
	writer.AssertExpectations(t)
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	writer := new(MockWriter)
	p := &KafkaPublisher{writer: writer}
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "broker down")
}

func TestAMQPPublisher_Publish(t *testing.T) {
	channel := new(MockChannel)
	p := &AMQPPublisher{channel: channel, exchange: "ledger-events"}

	channel.On("PublishWithContext", mock.Anything, "ledger-events", "transaction.created", false, false,
		mock.MatchedBy(func(msg amqp091.Publishing) bool {
			return msg.MessageId == "evt-1" && msg.ContentType == "application/json" &&
				msg.DeliveryMode == amqp091.Persistent && msg.Headers["user_id"] == "user-1"
		})).Return(nil).Once()

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	channel.AssertExpectations(t)

	channel.On("Close").Return(nil).Once()
	assert.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.NoError(t, p.Close())
}
