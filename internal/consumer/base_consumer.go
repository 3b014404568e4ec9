package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"
)

// BaseConsumer wires RabbitMQ connectivity, queue/DLQ declaration and the
// worker pool. Each worker pulls one delivery at a time and runs the full
// pipeline to completion before taking the next, so a quiet-hours stall on
// one message delays the messages behind it on that worker.
type BaseConsumer struct {
	conn        *amqp.Connection
	exchange    string
	routingKey  string
	queue       string
	dlq         string
	prefetch    int
	workerCount int
	logger      *slog.Logger
}

func NewBaseConsumer(conn *amqp.Connection, exchange, routingKey, queue, dlq string, prefetch, workerCount int, logger *slog.Logger) *BaseConsumer {
	if prefetch <= 0 {
		prefetch = 1
	}
	if workerCount <= 0 {
		workerCount = 1
	}
	if exchange == "" {
		exchange = "notifications.direct"
	}
	return &BaseConsumer{
		conn:        conn,
		exchange:    exchange,
		routingKey:  routingKey,
		queue:       queue,
		dlq:         dlq,
		prefetch:    prefetch,
		workerCount: workerCount,
		logger:      logger,
	}
}

// Start declares the topology and consumes until ctx is cancelled.
func (c *BaseConsumer) Start(ctx context.Context, handler func(context.Context, amqp.Delivery) error) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := c.setupTopology(ch); err != nil {
		return fmt.Errorf("queue setup failed: %w", err)
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("qos configuration failed: %w", err)
	}

	deliveries, err := ch.Consume(
		c.queue,
		"",
		false, // autoAck: acknowledgement is owned by the handler
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i := 0; i < c.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-deliveries:
					if !ok {
						return
					}
					if err := handler(ctx, msg); err != nil {
						c.logger.Error("handler returned error", slog.Any("error", err))
					}
				}
			}
		}()
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

func (c *BaseConsumer) setupTopology(ch *amqp.Channel) error {
	args := amqp.Table{}
	if c.dlq != "" {
		args["x-dead-letter-exchange"] = ""
		args["x-dead-letter-routing-key"] = c.dlq
	}

	if err := ch.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, args); err != nil {
		return err
	}
	if err := ch.QueueBind(c.queue, c.routingKey, c.exchange, false, nil); err != nil {
		return err
	}
	if c.dlq != "" {
		if _, err := ch.QueueDeclare(c.dlq, true, false, false, false, nil); err != nil {
			return err
		}
	}
	return nil
}
