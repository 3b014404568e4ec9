package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/gov-platform/notification-worker/internal/services"
	"github.com/gov-platform/notification-worker/pkg/logger"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcknowledger struct {
	acks    int
	nacks   int
	rejects int
	requeue bool
}

func (a *fakeAcknowledger) Ack(_ uint64, _ bool) error { a.acks++; return nil }

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, _ bool) error { a.rejects++; return nil }

type fakeHandler struct {
	err      error
	requests []*models.NotificationRequest
}

func (h *fakeHandler) Handle(_ context.Context, req *models.NotificationRequest) error {
	h.requests = append(h.requests, req)
	return h.err
}

func newTestConsumer(handler *fakeHandler) *DispatchConsumer {
	return NewDispatchConsumer(nil, handler, logger.Nop(), 3)
}

func delivery(t *testing.T, ack *fakeAcknowledger, req *models.NotificationRequest) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestHandleDeliveryAcksOnSuccess(t *testing.T) {
	handler := &fakeHandler{}
	consumer := newTestConsumer(handler)
	ack := &fakeAcknowledger{}

	err := consumer.handleDelivery(context.Background(), delivery(t, ack, &models.NotificationRequest{MessageID: "msg-1"}))
	require.NoError(t, err)
	assert.Equal(t, 1, ack.acks)
	require.Len(t, handler.requests, 1)
	assert.Equal(t, "msg-1", handler.requests[0].MessageID)
}

func TestHandleDeliveryDropsPermanentFailures(t *testing.T) {
	handler := &fakeHandler{err: services.Permanent(fmt.Errorf("argument count mismatch"))}
	consumer := newTestConsumer(handler)
	ack := &fakeAcknowledger{}

	err := consumer.handleDelivery(context.Background(), delivery(t, ack, &models.NotificationRequest{MessageID: "msg-1"}))
	require.NoError(t, err, "permanent failures settle the message")
	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.nacks)
}

func TestHandleDeliveryRequeuesTransientFailures(t *testing.T) {
	handler := &fakeHandler{err: errors.New("profile service unreachable")}
	consumer := newTestConsumer(handler)
	ack := &fakeAcknowledger{}

	err := consumer.handleDelivery(context.Background(), delivery(t, ack, &models.NotificationRequest{MessageID: "msg-1"}))
	require.Error(t, err)
	assert.Equal(t, 1, ack.nacks)
	assert.True(t, ack.requeue)
}

func TestHandleDeliveryDeadLettersAfterBudget(t *testing.T) {
	handler := &fakeHandler{err: errors.New("still failing")}
	consumer := newTestConsumer(handler)
	ack := &fakeAcknowledger{}

	msg := delivery(t, ack, &models.NotificationRequest{MessageID: "msg-1"})
	msg.Headers = amqp.Table{
		"x-death": []interface{}{amqp.Table{"count": int64(3)}},
	}

	err := consumer.handleDelivery(context.Background(), msg)
	require.Error(t, err)
	assert.Equal(t, 1, ack.nacks)
	assert.False(t, ack.requeue, "exhausted budget dead-letters the message")
}

func TestHandleDeliveryRejectsPoisonPayload(t *testing.T) {
	handler := &fakeHandler{}
	consumer := newTestConsumer(handler)
	ack := &fakeAcknowledger{}

	err := consumer.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("not json")})
	require.Error(t, err)
	assert.Equal(t, 1, ack.rejects)
	assert.Empty(t, handler.requests)
}

func TestHandleDeliveryFallsBackToBrokerMessageID(t *testing.T) {
	handler := &fakeHandler{}
	consumer := newTestConsumer(handler)
	ack := &fakeAcknowledger{}

	msg := delivery(t, ack, &models.NotificationRequest{})
	msg.MessageId = "broker-id-1"

	require.NoError(t, consumer.handleDelivery(context.Background(), msg))
	require.Len(t, handler.requests, 1)
	assert.Equal(t, "broker-id-1", handler.requests[0].MessageID)
}
