package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotificationQueues(t *testing.T) {
	queues := GetNotificationQueues()
	require.Len(t, queues, 2)

	keys := map[string]string{}
	for _, q := range queues {
		keys[q.RoutingKey] = q.QueueName
	}
	assert.Equal(t, "notifications.purchase", keys[RoutingPurchase])
	assert.Equal(t, "notifications.expiring", keys[RoutingExpiring])
}

func TestConsumerMessage_AckAndRequeue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rmqContainer, cleanup := SetupRabbitMQContainer(ctx, t)
	defer cleanup()

	amqpURI, err := GetAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	var calls atomic.Int32
	handled := make(chan []byte, 1)
	handler := func(body []byte) error {
		// первая попытка падает, сообщение должно вернуться в очередь
		if calls.Add(1) == 1 {
			return errors.New("temporary failure")
		}
		handled <- body
		return nil
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, ConsumerMessage(ctx, log, ch, "notifications.purchase", handler))

	pub := NewPublisher(ch)
	require.NoError(t, pub.Publish(ctx, RoutingPurchase, map[string]string{"transaction_id": "tx-1"}))

	select {
	case body := <-handled:
		assert.JSONEq(t, `{"transaction_id":"tx-1"}`, string(body))
		assert.GreaterOrEqual(t, calls.Load(), int32(2))
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for redelivered message")
	}
}

func TestPublisher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := NewPublisher(nil)
	err := pub.Publish(ctx, RoutingPurchase, "msg")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
