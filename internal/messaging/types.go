package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CommerceAdapters/pkg/correlation"

	"github.com/google/uuid"
)

// Envelope is the wire form of every published event. Key selects the partition.
type Envelope struct {
	EventID       string          `json:"event_id"`
	Key           string          `json:"key"`
	Type          string          `json:"type"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	Timestamp     time.Time       `json:"timestamp"`
}

// NewEnvelope marshals payload and stamps it with a fresh event ID and the
// correlation ID carried by ctx.
func NewEnvelope(ctx context.Context, key, msgType string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}

	return Envelope{
		EventID:       uuid.NewString(),
		Key:           key,
		Type:          msgType,
		CorrelationID: correlation.FromContext(ctx),
		Payload:       data,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// Publisher delivers envelopes to a broker or another sink.
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
	Close() error
}
