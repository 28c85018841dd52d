package payment

import "context"

//go:generate mockgen -source gateway.go -destination mock_gateway.go -package payment

// Gateway is the vendor checkout API as seen by the processor.
// Implementations return *HTTPError-style typed errors for non-2xx responses and wrap
// ErrSessionNotFound / ErrSessionNotActive where the vendor reports those conditions.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (CheckoutSession, error)
	ExpireCheckoutSession(ctx context.Context, id string) (CheckoutSession, error)
	GetPaymentIntent(ctx context.Context, id string) (PaymentIntentSnapshot, error)
	// DecodeWebhookEvent verifies the signature header against body and decodes the event.
	DecodeWebhookEvent(body []byte, signature string) (WebhookEvent, error)
}

type CheckoutRequest struct {
	ReferenceNumber string
	Amount          int64
	CurrencyCode    string
	Description     string
	Customer        *Customer
}

type CheckoutSession struct {
	ID              string
	CheckoutURL     string
	Status          string
	ReferenceNumber string
	ClientKey       string
	PaymentIntent   *PaymentIntentSnapshot
}

// WebhookEvent is a decoded vendor event, flattened to what the processor maps.
type WebhookEvent struct {
	ID              string
	Type            string
	Livemode        bool
	ResourceID      string
	ReferenceNumber string
	PaymentIntentID string
	Amount          int64
	Currency        string
}
