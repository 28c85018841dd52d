package payment

// WebhookAction tells the platform what to do with the session a webhook refers to.
type WebhookAction string

const (
	ActionAuthorized   WebhookAction = "authorized"
	ActionCaptured     WebhookAction = "captured"
	ActionFailed       WebhookAction = "failed"
	ActionNotSupported WebhookAction = "not_supported"
)

// Vendor event types the processor reacts to.
const (
	EventTypeCheckoutPaid = "checkout_session.payment.paid"
	EventTypePaymentPaid  = "payment.paid"
	EventTypePaymentFail  = "payment.failed"
)

// WebhookPayload is the raw inbound webhook as received by the HTTP layer.
type WebhookPayload struct {
	Body      []byte
	Signature string
}

type WebhookResult struct {
	Action    WebhookAction `json:"action"`
	EventID   string        `json:"event_id,omitempty"`
	EventType string        `json:"event_type,omitempty"`
	SessionID string        `json:"session_id,omitempty"`
	Amount    int64         `json:"amount,omitempty"`
	// ResourceID is the vendor object the event is about (checkout session or payment).
	ResourceID string `json:"resource_id,omitempty"`
	Livemode   bool   `json:"livemode"`
}

func actionFor(eventType string) WebhookAction {
	switch eventType {
	case EventTypeCheckoutPaid:
		return ActionAuthorized
	case EventTypePaymentPaid:
		return ActionCaptured
	case EventTypePaymentFail:
		return ActionFailed
	default:
		return ActionNotSupported
	}
}
