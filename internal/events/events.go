// Package events publishes storefront domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"camelia/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// TypeOrderPlaced is the event type emitted after a successful checkout.
const TypeOrderPlaced = "order.placed"

// OrderPlaced is the payload of an order.placed event.
type OrderPlaced struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Order      model.Order `json:"order"`
}

// Publisher emits domain events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order model.Order) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by order id.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}

	logger.Info().Strs("brokers", brokers).Str("topic", topic).Msg("kafka publisher initialised")

	return newKafkaPublisher(writer, logger)
}

func newKafkaPublisher(writer messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		now:    time.Now,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// PublishOrderPlaced emits an order.placed event for order.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order model.Order) error {
	event := OrderPlaced{
		ID:         uuid.NewString(),
		Type:       TypeOrderPlaced,
		OccurredAt: p.now().UTC(),
		Order:      order,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", TypeOrderPlaced, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(order.OrderID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeOrderPlaced)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Int("order_id", order.OrderID).Msg("failed to publish event")
		return fmt.Errorf("failed to publish %s event: %w", TypeOrderPlaced, err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Int("order_id", order.OrderID).
		Msg("event published")

	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderPlaced(context.Context, model.Order) error { return nil }
func (nopPublisher) Close() error                                          { return nil }
