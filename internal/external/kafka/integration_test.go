//go:build integration
// +build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"CommerceAdapters/internal/domain/payment"
	kafkapub "CommerceAdapters/internal/external/kafka"
	"CommerceAdapters/internal/messaging"
	"CommerceAdapters/internal/testinfra"
	"CommerceAdapters/pkg/correlation"
	"CommerceAdapters/pkg/health"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_PaymentEvents(t *testing.T) {
	ctx := context.Background()

	suite, err := testinfra.NewTestSuite(ctx, testinfra.SuiteOptions{WithKafka: true})
	require.NoError(t, err)
	t.Cleanup(func() { suite.Cleanup(ctx) })

	brokers, topic := suite.Kafka.Brokers, suite.Kafka.EventsTopic
	l := slog.New(slog.NewTextHandler(io.Discard, nil))

	pub := kafkapub.NewPublisher(l, brokers, topic)
	t.Cleanup(func() { _ = pub.Close() })
	sink := messaging.NewPaymentEventSink(pub, "kafka")

	t.Run("health check sees the topic", func(t *testing.T) {
		res := health.NewKafkaChecker(brokers, topic).Check(ctx)
		assert.Equal(t, health.StatusUp, res.Status, res.Message)
	})

	t.Run("event is keyed by session and carries correlation header", func(t *testing.T) {
		// given
		pubCtx := correlation.WithID(ctx, "corr-int-1")

		// when
		err := sink.PublishStatus(pubCtx, payment.StatusEvent{
			Kind:         payment.EventSessionReconciled,
			SessionID:    "payses_int_1",
			Status:       payment.SessionStatusAuthorized,
			Amount:       5000,
			CurrencyCode: "php",
		})
		require.NoError(t, err)

		// then
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:   brokers,
			Topic:     topic,
			Partition: partitionFor(t, brokers, topic, "payses_int_1"),
			MinBytes:  1,
			MaxBytes:  10e6,
		})
		t.Cleanup(func() { _ = reader.Close() })

		readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		msg, err := reader.ReadMessage(readCtx)
		require.NoError(t, err)

		assert.Equal(t, "payses_int_1", string(msg.Key))
		assert.Equal(t, "corr-int-1", header(msg, correlation.KafkaHeaderName))
		assert.Equal(t, "payment.session_reconciled", header(msg, "event_type"))

		var env messaging.Envelope
		require.NoError(t, json.Unmarshal(msg.Value, &env))
		var event payment.StatusEvent
		require.NoError(t, json.Unmarshal(env.Payload, &event))
		assert.Equal(t, payment.SessionStatusAuthorized, event.Status)
		assert.Equal(t, int64(5000), event.Amount)
	})
}

// partitionFor mirrors the writer's Hash balancer so the reader can read one partition.
func partitionFor(t *testing.T, brokers []string, topic, key string) int {
	t.Helper()

	conn, err := kafka.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer conn.Close()

	partitions, err := conn.ReadPartitions(topic)
	require.NoError(t, err)

	ids := make([]int, len(partitions))
	for i, p := range partitions {
		ids[i] = p.ID
	}
	return (&kafka.Hash{}).Balance(kafka.Message{Key: []byte(key)}, ids...)
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
