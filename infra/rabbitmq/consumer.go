package rabbitmq

import (
	"catalog/pkg/events"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	defaultPrefetchCount  = 10
	defaultWorkerPoolSize = 1
	processTimeout        = 30 * time.Second
)

// EventHandler is a function that processes events
type EventHandler func(ctx context.Context, event *events.Event) error

type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	queueName   string
	serviceName string
	workers     int
}

type ConsumerConfig struct {
	Exchange       string   // e.g., "catalog.category"
	QueueName      string   // e.g., "catalog.category.snapshot.v1"
	RoutingKeys    []string // e.g., ["category.*.v1"]
	ServiceName    string   // consumer tag
	PrefetchCount  int      // 0 means defaultPrefetchCount
	WorkerPoolSize int      // messages processed concurrently, 0 means one
}

func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	prefetchCount := config.PrefetchCount
	if prefetchCount == 0 {
		prefetchCount = defaultPrefetchCount
	}
	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		closeAll(channel, conn)
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareTopology(channel, config); err != nil {
		closeAll(channel, conn)
		return nil, err
	}

	workers := config.WorkerPoolSize
	if workers < 1 {
		workers = defaultWorkerPoolSize
	}

	zap.L().Info("RabbitMQ consumer created successfully",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
		zap.Int("workers", workers),
	)

	return &Consumer{
		conn:        conn,
		channel:     channel,
		queueName:   config.QueueName,
		serviceName: config.ServiceName,
		workers:     workers,
	}, nil
}

// declareTopology declares the exchange, the queue and its dead letter pair,
// and binds both queues for every routing key.
func declareTopology(channel *amqp.Channel, config ConsumerConfig) error {
	if err := declareTopicExchange(channel, config.Exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	dlxName := config.Exchange + ".dlx"
	if err := declareTopicExchange(channel, dlxName); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}

	queue, err := channel.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-dead-letter-exchange": dlxName},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	dlqName := config.QueueName + ".dlq"
	if _, err := channel.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	for _, routingKey := range config.RoutingKeys {
		if err := channel.QueueBind(dlqName, routingKey, dlxName, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ: %w", err)
		}
		if err := channel.QueueBind(queue.Name, routingKey, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return nil
}

// Consume dispatches deliveries to a bounded pool of goroutines until ctx is
// cancelled or the broker closes the channel. In-flight messages are drained
// before it returns.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		c.serviceName, // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages", zap.String("queue", c.queueName))

	var wg sync.WaitGroup
	defer wg.Wait()

	sem := make(chan struct{}, c.workers)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Consumer context cancelled, stopping...")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				zap.L().Warn("Message channel closed")
				return fmt.Errorf("message channel closed")
			}

			sem <- struct{}{}
			wg.Add(1)
			go func(msg amqp.Delivery) {
				defer func() {
					<-sem
					wg.Done()
				}()
				handleMessage(ctx, c.queueName, msg, handler)
			}(msg)
		}
	}
}

// handleMessage acks processed messages and dead-letters malformed or failed
// ones. Processing runs detached from ctx so a shutdown lets in-flight work
// finish; a failure seen after ctx is done is requeued instead of dead-lettered.
func handleMessage(ctx context.Context, queueName string, msg amqp.Delivery, handler EventHandler) {
	traceID, _ := msg.Headers["x-trace-id"].(string)
	correlationID, _ := msg.Headers["x-correlation-id"].(string)
	service, _ := msg.Headers["x-service"].(string)

	zap.L().Info("Received message",
		zap.String("queue", queueName),
		zap.String("routingKey", msg.RoutingKey),
		zap.String("traceId", traceID),
		zap.String("correlationId", correlationID),
		zap.String("sourceService", service),
	)

	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		zap.L().Error("Failed to unmarshal event",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
		_ = msg.Nack(false, false)
		return
	}

	processCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), processTimeout)
	defer cancel()

	if err := handler(processCtx, &event); err != nil {
		requeue := ctx.Err() != nil
		zap.L().Error("Failed to process event",
			zap.Error(err),
			zap.String("event", event.Event),
			zap.String("traceId", traceID),
			zap.Bool("requeue", requeue),
		)
		_ = msg.Nack(false, requeue)
		return
	}

	if err := msg.Ack(false); err != nil {
		zap.L().Error("Failed to acknowledge message",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
		return
	}

	zap.L().Info("Successfully processed event",
		zap.String("event", event.Event),
		zap.String("traceId", traceID),
	)
}

func (c *Consumer) Close() error {
	closeAll(c.channel, c.conn)
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}
