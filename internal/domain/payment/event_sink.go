package payment

import (
	"context"
	"time"
)

//go:generate mockgen -source event_sink.go -destination mock_event_sink.go -package payment

// EventSink receives status changes the processor observed. Delivery is best effort:
// the processor logs sink failures and never fails a platform call because of them.
type EventSink interface {
	PublishStatus(ctx context.Context, event StatusEvent) error
}

type StatusEvent struct {
	Kind              EventKind     `json:"kind"`
	SessionID         string        `json:"session_id,omitempty"`
	CheckoutSessionID string        `json:"checkout_session_id,omitempty"`
	PaymentIntentID   string        `json:"payment_intent_id,omitempty"`
	Status            SessionStatus `json:"status,omitempty"`
	Action            WebhookAction `json:"action,omitempty"`
	Amount            int64         `json:"amount"`
	CurrencyCode      string        `json:"currency_code,omitempty"`
	Mismatch          string        `json:"mismatch,omitempty"`
	Livemode          bool          `json:"livemode,omitempty"`
	OccurredAt        time.Time     `json:"occurred_at"`
}

type EventKind string

const (
	EventSessionInitiated  EventKind = "session_initiated"
	EventSessionReconciled EventKind = "session_reconciled"
	EventSessionCanceled   EventKind = "session_canceled"
	EventWebhookReceived   EventKind = "webhook_received"
)
