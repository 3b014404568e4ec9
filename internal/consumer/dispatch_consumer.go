package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/gov-platform/notification-worker/internal/services"
	"github.com/streadway/amqp"
)

// Handler processes one decoded notification request.
type Handler interface {
	Handle(ctx context.Context, req *models.NotificationRequest) error
}

// DispatchConsumer decodes deliveries, runs the orchestrator and settles the
// message: ack on success or permanent failure, nack with requeue while the
// redelivery budget lasts, dead-letter after that.
type DispatchConsumer struct {
	base          *BaseConsumer
	handler       Handler
	logger        *slog.Logger
	maxDeliveries int
}

func NewDispatchConsumer(base *BaseConsumer, handler Handler, logger *slog.Logger, maxDeliveries int) *DispatchConsumer {
	if maxDeliveries <= 0 {
		maxDeliveries = 4
	}
	return &DispatchConsumer{
		base:          base,
		handler:       handler,
		logger:        logger,
		maxDeliveries: maxDeliveries,
	}
}

func (c *DispatchConsumer) Start(ctx context.Context) error {
	return c.base.Start(ctx, c.handleDelivery)
}

func (c *DispatchConsumer) handleDelivery(ctx context.Context, msg amqp.Delivery) error {
	var req models.NotificationRequest
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		c.logger.Error("failed to unmarshal notification request", slog.Any("error", err))
		_ = msg.Reject(false)
		return err
	}
	if req.MessageID == "" && msg.MessageId != "" {
		req.MessageID = msg.MessageId
	}

	err := c.handler.Handle(ctx, &req)
	if err == nil {
		return msg.Ack(false)
	}

	if services.IsPermanent(err) {
		c.logger.Error("message permanently unprocessable, dropping",
			slog.String("message_id", req.MessageID), slog.Any("error", err))
		_ = msg.Ack(false)
		return nil
	}

	requeue := deliveryAttempts(&msg) < c.maxDeliveries
	if requeue {
		c.logger.Warn("processing failed, message requeued",
			slog.String("message_id", req.MessageID), slog.Any("error", err))
	} else {
		c.logger.Error("processing failed, message dead-lettered",
			slog.String("message_id", req.MessageID), slog.Any("error", err))
	}
	_ = msg.Nack(false, requeue)
	return err
}

// deliveryAttempts reads the broker's x-death count, falling back to the
// redelivered flag when no headers are present.
func deliveryAttempts(msg *amqp.Delivery) int {
	if msg.Headers != nil {
		if raw, ok := msg.Headers["x-death"]; ok {
			if deaths, ok := raw.([]interface{}); ok && len(deaths) > 0 {
				if table, ok := deaths[0].(amqp.Table); ok {
					if count, ok := table["count"].(int64); ok {
						return int(count)
					}
				}
			}
		}
	}
	if msg.Redelivered {
		return 1
	}
	return 0
}
