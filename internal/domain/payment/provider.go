package payment

import "context"

// Provider is the capability contract the platform calls for a payment provider.
// Operations absent from Capabilities return a *NotSupportedError.
type Provider interface {
	Identifier() string
	Capabilities() CapabilitySet

	InitiatePayment(ctx context.Context, in InitiateInput) (PaymentResponse, error)
	AuthorizePayment(ctx context.Context, data SessionData) (PaymentResponse, error)
	CapturePayment(ctx context.Context, data SessionData) (PaymentResponse, error)
	RefundPayment(ctx context.Context, data SessionData, amount int64) (PaymentResponse, error)
	CancelPayment(ctx context.Context, data SessionData) (PaymentResponse, error)
	DeletePayment(ctx context.Context, data SessionData) (PaymentResponse, error)
	GetPaymentStatus(ctx context.Context, data SessionData) (PaymentResponse, error)
	RetrievePayment(ctx context.Context, data SessionData) (PaymentResponse, error)
	UpdatePayment(ctx context.Context, in UpdateInput) (PaymentResponse, error)
	GetWebhookActionAndData(ctx context.Context, payload WebhookPayload) (WebhookResult, error)
}
