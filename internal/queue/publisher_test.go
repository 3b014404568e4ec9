package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	exchange  string
	key       string
	err       error
}

func (c *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.exchange = exchange
	c.key = key
	c.published = append(c.published, msg)
	return nil
}

func TestEnqueueAssignsFreshMessageID(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "notifications.direct", routingKey: "notification"}

	req := &models.NotificationRequest{
		MessageID:  "original-id",
		TemplateID: "HNIPP.DOCUMENTS.NEW",
		Recipient:  "0101803019",
	}
	id, err := p.Enqueue(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.NotEqual(t, "original-id", id)
	assert.Equal(t, id, req.MessageID)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "notifications.direct", ch.exchange)
	assert.Equal(t, "notification", ch.key)
	assert.Equal(t, id, ch.published[0].MessageId)
	assert.Equal(t, uint8(amqp.Persistent), ch.published[0].DeliveryMode)

	var decoded models.NotificationRequest
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &decoded))
	assert.Equal(t, id, decoded.MessageID)
	assert.Equal(t, "HNIPP.DOCUMENTS.NEW", decoded.TemplateID)
}

func TestEnqueueIDsAreDistinct(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, exchange: "x", routingKey: "k"}

	first, err := p.Enqueue(context.Background(), &models.NotificationRequest{})
	require.NoError(t, err)
	second, err := p.Enqueue(context.Background(), &models.NotificationRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestEnqueuePublishFailure(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &Publisher{ch: ch, exchange: "x", routingKey: "k"}

	_, err := p.Enqueue(context.Background(), &models.NotificationRequest{})
	require.Error(t, err)
}
