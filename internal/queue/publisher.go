// Package queue holds the producer side of the notification queue, used by
// delegation fan-out to re-enter copies into the same pipeline.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/streadway/amqp"
)

// channel is the slice of amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher enqueues notification requests, assigning each a fresh message
// id the way the upstream API's enqueue does.
type Publisher struct {
	ch         channel
	exchange   string
	routingKey string
}

// NewPublisher opens a dedicated channel on conn for publishing.
func NewPublisher(conn *amqp.Connection, exchange, routingKey string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

// Enqueue publishes req with a newly generated message id and returns it.
func (p *Publisher) Enqueue(_ context.Context, req *models.NotificationRequest) (string, error) {
	req.MessageID = uuid.NewString()
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	err = p.ch.Publish(p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    req.MessageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return "", err
	}
	return req.MessageID, nil
}

// Close releases the publisher's channel.
func (p *Publisher) Close() error {
	if closer, ok := p.ch.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
