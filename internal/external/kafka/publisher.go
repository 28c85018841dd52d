// Package kafka publishes messaging envelopes to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"CommerceAdapters/internal/messaging"
	"CommerceAdapters/pkg/correlation"

	"github.com/segmentio/kafka-go"
)

// Publisher implements messaging.Publisher using Kafka.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

var _ messaging.Publisher = (*Publisher)(nil)

// NewPublisher creates a Kafka publisher. Messages are hashed by envelope key.
func NewPublisher(l *slog.Logger, brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{
		writer: writer,
		logger: l.With("component", "kafka_publisher", "topic", topic),
	}
}

func (p *Publisher) Publish(ctx context.Context, env messaging.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.Type)},
		},
	}
	if env.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: correlation.KafkaHeaderName, Value: []byte(env.CorrelationID)})
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish message", "key", env.Key, "type", env.Type, "error", err)
		return fmt.Errorf("write message: %w", err)
	}

	p.logger.DebugContext(ctx, "message published", "key", env.Key, "type", env.Type, "event_id", env.EventID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
