package rabbitmq

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

const (
	// DefaultExchange is the fanout exchange product events are published to.
	// Every subscriber binds its own queue to it.
	DefaultExchange = "product_events"
	// DefaultQueue is the queue the service's own consumer reads from.
	DefaultQueue = "product_events.log"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      *logrus.Logger
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

// ProductEvent is the message body published for every product change.
type ProductEvent struct {
	Event   string                 `json:"event"`
	Product map[string]interface{} `json:"product"`
}

func (cfg Config) withDefaults() Config {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	return cfg
}

// NewClient connects to RabbitMQ, opens a channel and declares the event exchange.
func NewClient(cfg Config, log *logrus.Logger) (*Client, error) {
	cfg = cfg.withDefaults()

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareExchange(ch, cfg.Exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.WithField("exchange", cfg.Exchange).Info("RabbitMQ client connected and exchange declared")

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		log:      log,
	}, nil
}

func declareExchange(ch *amqp.Channel, name string) error {
	err := ch.ExchangeDeclare(name, amqp.ExchangeFanout, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", name, err)
	}
	return nil
}

// declareQueue declares a durable queue and binds it to the event exchange.
func declareQueue(ch *amqp.Channel, name, exchange string) error {
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s: %w", name, err)
	}
	// Fanout exchanges ignore the binding key.
	if err := ch.QueueBind(name, "", exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s to %s: %w", name, exchange, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// NewPublishing builds the persistent JSON message for a product event.
func NewPublishing(event string, product map[string]interface{}, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(ProductEvent{Event: event, Product: product})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event,
		MessageId:    uuid.New().String(),
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	}, nil
}

// PublishProductEvent publishes a product event to the event exchange.
// The event name is used as the routing key.
func (c *Client) PublishProductEvent(event string, product map[string]interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := NewPublishing(event, product, time.Now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	err = c.channel.Publish(c.exchange, event, false, false, msg)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"event":      event,
		"message_id": msg.MessageId,
	}).Debug("Sent product event")
	return nil
}

// ConsumeProductEvents binds the client's queue to the event exchange and
// hands every delivery to handler in a background goroutine.
func (c *Client) ConsumeProductEvents(handler func(ProductEvent, amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	if err := declareQueue(c.channel, c.queue, c.exchange); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()
	return nil
}

// handleDelivery acks msg when handler succeeds and requeues it when
// handler fails. Bodies that are not a ProductEvent are dropped.
func (c *Client) handleDelivery(msg amqp.Delivery, handler func(ProductEvent, amqp.Delivery) error) {
	var event ProductEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.WithError(err).WithField("delivery_tag", msg.DeliveryTag).Error("Discarding malformed product event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.log.WithError(nackErr).Error("Error nacking message")
		}
		return
	}

	if err := handler(event, msg); err != nil {
		c.log.WithError(err).WithField("delivery_tag", msg.DeliveryTag).Error("Error processing product event")
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.log.WithError(nackErr).Error("Error nacking message")
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.WithError(ackErr).Error("Error acking message")
	}
}

// LogProductEvent is a consumer handler that records each event in the log.
func LogProductEvent(log *logrus.Logger) func(ProductEvent, amqp.Delivery) error {
	return func(event ProductEvent, msg amqp.Delivery) error {
		log.WithFields(logrus.Fields{
			"event":      event.Event,
			"message_id": msg.MessageId,
			"product_id": event.Product["id"],
		}).Info("Received product event")
		return nil
	}
}
