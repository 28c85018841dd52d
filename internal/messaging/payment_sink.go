package messaging

import (
	"context"
	"fmt"

	"CommerceAdapters/internal/domain/payment"
	"CommerceAdapters/pkg/metrics"
)

const paymentEventPrefix = "payment."

// PaymentEventSink turns processor status events into envelopes keyed by session ID,
// so all events of one session land on the same partition.
type PaymentEventSink struct {
	publisher Publisher
	name      string
}

var _ payment.EventSink = (*PaymentEventSink)(nil)

// NewPaymentEventSink wraps publisher; name labels the published-events metric.
func NewPaymentEventSink(publisher Publisher, name string) *PaymentEventSink {
	return &PaymentEventSink{publisher: publisher, name: name}
}

func (s *PaymentEventSink) PublishStatus(ctx context.Context, event payment.StatusEvent) error {
	msgType := paymentEventPrefix + string(event.Kind)

	env, err := NewEnvelope(ctx, event.SessionID, msgType, event)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(s.name, msgType, "error").Inc()
		return err
	}

	if err := s.publisher.Publish(ctx, env); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(s.name, msgType, "error").Inc()
		return fmt.Errorf("publish %s: %w", msgType, err)
	}
	metrics.EventsPublishedTotal.WithLabelValues(s.name, msgType, "ok").Inc()
	return nil
}
