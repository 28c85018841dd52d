package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"CommerceAdapters/pkg/metrics"
)

const ProviderID = "paymongo"

var supported = CapabilitySet{
	CapabilityInitiate,
	CapabilityAuthorize,
	CapabilityCapture,
	CapabilityCancel,
	CapabilityDelete,
	CapabilityStatus,
	CapabilityRetrieve,
	CapabilityUpdate,
	CapabilityWebhook,
}

// Processor implements Provider on top of a hosted-checkout Gateway.
type Processor struct {
	gateway Gateway
	events  EventSink
	logger  *slog.Logger
	now     func() time.Time
}

var _ Provider = (*Processor)(nil)

func NewProcessor(gateway Gateway, events EventSink, l *slog.Logger) *Processor {
	return &Processor{
		gateway: gateway,
		events:  events,
		logger:  l.With("component", "payment_processor"),
		now:     time.Now,
	}
}

func (p *Processor) Identifier() string {
	return ProviderID
}

func (p *Processor) Capabilities() CapabilitySet {
	return supported
}

func (p *Processor) InitiatePayment(ctx context.Context, in InitiateInput) (PaymentResponse, error) {
	if err := in.Validate(); err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid initiate request: %w", err)
	}

	session, err := p.gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		ReferenceNumber: in.SessionID,
		Amount:          in.Amount,
		CurrencyCode:    strings.ToUpper(in.CurrencyCode),
		Description:     in.Description,
		Customer:        in.Customer,
	})
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("create checkout session: %w", err)
	}

	data := sessionData(in, session)
	status := ToSessionStatus(session.PaymentIntent)

	p.logger.InfoContext(ctx, "checkout session created",
		"session_id", in.SessionID,
		"checkout_session_id", session.ID,
		"payment_intent_id", data.PaymentIntentID,
		"status", status,
	)
	p.publish(ctx, StatusEvent{
		Kind:              EventSessionInitiated,
		SessionID:         in.SessionID,
		CheckoutSessionID: session.ID,
		PaymentIntentID:   data.PaymentIntentID,
		Status:            status,
		Amount:            in.Amount,
		CurrencyCode:      data.CurrencyCode,
	})

	return PaymentResponse{ID: session.ID, Status: status, Data: data}, nil
}

func (p *Processor) AuthorizePayment(ctx context.Context, data SessionData) (PaymentResponse, error) {
	if data.PaymentIntentID == "" {
		return PaymentResponse{}, fmt.Errorf("authorize: %w", ErrMissingSessionData)
	}

	intent, err := p.gateway.GetPaymentIntent(ctx, data.PaymentIntentID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("get payment intent %s: %w", data.PaymentIntentID, err)
	}

	status, mismatch := p.reconcile(ctx, data, intent)
	data.IntentStatus = intent.Status

	p.publish(ctx, StatusEvent{
		Kind:              EventSessionReconciled,
		SessionID:         data.SessionID,
		CheckoutSessionID: data.CheckoutSessionID,
		PaymentIntentID:   intent.ID,
		Status:            status,
		Amount:            intent.Amount,
		CurrencyCode:      strings.ToLower(intent.Currency),
		Mismatch:          mismatch,
	})

	return PaymentResponse{ID: data.CheckoutSessionID, Status: status, Data: data}, nil
}

// CapturePayment confirms the charge. Hosted checkout captures automatically, so no
// capture endpoint is called; the intent must already have succeeded for this order.
func (p *Processor) CapturePayment(ctx context.Context, data SessionData) (PaymentResponse, error) {
	if data.PaymentIntentID == "" {
		return PaymentResponse{}, fmt.Errorf("capture: %w", ErrMissingSessionData)
	}

	intent, err := p.gateway.GetPaymentIntent(ctx, data.PaymentIntentID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("get payment intent %s: %w", data.PaymentIntentID, err)
	}

	if status, mismatch := p.reconcile(ctx, data, intent); status != SessionStatusAuthorized {
		if mismatch != "" {
			return PaymentResponse{}, fmt.Errorf("capture %s: %w: %s", intent.ID, ErrNotCapturable, mismatch)
		}
		return PaymentResponse{}, fmt.Errorf("capture %s (intent %s): %w", intent.ID, intent.Status, ErrNotCapturable)
	}

	data.IntentStatus = intent.Status
	return PaymentResponse{ID: data.CheckoutSessionID, Status: SessionStatusCaptured, Data: data}, nil
}

func (p *Processor) RefundPayment(ctx context.Context, data SessionData, amount int64) (PaymentResponse, error) {
	p.logger.WarnContext(ctx, "refund requested but not supported",
		"checkout_session_id", data.CheckoutSessionID,
		"amount", amount,
	)
	return PaymentResponse{}, &NotSupportedError{Operation: CapabilityRefund}
}

func (p *Processor) CancelPayment(ctx context.Context, data SessionData) (PaymentResponse, error) {
	if data.CheckoutSessionID == "" {
		return PaymentResponse{}, fmt.Errorf("cancel: %w", ErrMissingSessionData)
	}

	session, err := p.gateway.ExpireCheckoutSession(ctx, data.CheckoutSessionID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("expire checkout session %s: %w", data.CheckoutSessionID, err)
	}
	data.CheckoutStatus = session.Status

	p.publish(ctx, StatusEvent{
		Kind:              EventSessionCanceled,
		SessionID:         data.SessionID,
		CheckoutSessionID: data.CheckoutSessionID,
		PaymentIntentID:   data.PaymentIntentID,
		Status:            SessionStatusCanceled,
		Amount:            data.Amount,
		CurrencyCode:      data.CurrencyCode,
	})

	return PaymentResponse{ID: data.CheckoutSessionID, Status: SessionStatusCanceled, Data: data}, nil
}

// DeletePayment expires the checkout session. A session the vendor no longer knows
// or that already left the active state counts as deleted.
func (p *Processor) DeletePayment(ctx context.Context, data SessionData) (PaymentResponse, error) {
	if data.CheckoutSessionID == "" {
		return PaymentResponse{Data: data}, nil
	}

	status, err := p.expireIfActive(ctx, data.CheckoutSessionID)
	if err != nil {
		return PaymentResponse{}, err
	}
	if status != "" {
		data.CheckoutStatus = status
	}

	return PaymentResponse{ID: data.CheckoutSessionID, Status: SessionStatusCanceled, Data: data}, nil
}

// expireIfActive expires a checkout session and returns its new vendor status, or ""
// when the vendor no longer knows it or it already left the active state.
func (p *Processor) expireIfActive(ctx context.Context, checkoutSessionID string) (string, error) {
	session, err := p.gateway.ExpireCheckoutSession(ctx, checkoutSessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionNotActive):
		p.logger.InfoContext(ctx, "checkout session already gone",
			"checkout_session_id", checkoutSessionID,
			"error", err,
		)
		return "", nil
	case err != nil:
		return "", fmt.Errorf("expire checkout session %s: %w", checkoutSessionID, err)
	default:
		return session.Status, nil
	}
}

// GetPaymentStatus reports the viewing state only; an unfetchable intent is an
// error status rather than a failed call.
func (p *Processor) GetPaymentStatus(ctx context.Context, data SessionData) (PaymentResponse, error) {
	var snapshot *PaymentIntentSnapshot
	if data.PaymentIntentID != "" {
		intent, err := p.gateway.GetPaymentIntent(ctx, data.PaymentIntentID)
		if err != nil {
			p.logger.WarnContext(ctx, "payment intent unavailable",
				"payment_intent_id", data.PaymentIntentID,
				"error", err,
			)
		} else {
			snapshot = &intent
			data.IntentStatus = intent.Status
		}
	}

	return PaymentResponse{ID: data.CheckoutSessionID, Status: ToSessionStatus(snapshot), Data: data}, nil
}

func (p *Processor) RetrievePayment(ctx context.Context, data SessionData) (PaymentResponse, error) {
	if data.CheckoutSessionID == "" {
		return PaymentResponse{}, fmt.Errorf("retrieve: %w", ErrMissingSessionData)
	}

	session, err := p.gateway.GetCheckoutSession(ctx, data.CheckoutSessionID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("get checkout session %s: %w", data.CheckoutSessionID, err)
	}

	data.CheckoutStatus = session.Status
	if session.CheckoutURL != "" {
		data.CheckoutURL = session.CheckoutURL
	}
	if session.PaymentIntent != nil {
		data.PaymentIntentID = session.PaymentIntent.ID
		data.IntentStatus = session.PaymentIntent.Status
	}

	return PaymentResponse{ID: session.ID, Status: ToSessionStatus(session.PaymentIntent), Data: data}, nil
}

// UpdatePayment opens a fresh checkout session when the amount or currency changed.
// Sessions cannot be amended, so the previous one is expired first and its checkout
// URL stops accepting payments for the stale amount.
func (p *Processor) UpdatePayment(ctx context.Context, in UpdateInput) (PaymentResponse, error) {
	if err := in.Validate(); err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid update request: %w", err)
	}

	if in.Data.CheckoutSessionID != "" &&
		in.Data.Amount == in.Amount &&
		strings.EqualFold(in.Data.CurrencyCode, in.CurrencyCode) {
		return PaymentResponse{ID: in.Data.CheckoutSessionID, Data: in.Data}, nil
	}

	if in.Data.CheckoutSessionID != "" {
		if _, err := p.expireIfActive(ctx, in.Data.CheckoutSessionID); err != nil {
			return PaymentResponse{}, fmt.Errorf("update: %w", err)
		}
	}

	if in.SessionID == "" {
		in.SessionID = in.Data.SessionID
	}
	return p.InitiatePayment(ctx, in.InitiateInput)
}

func (p *Processor) GetWebhookActionAndData(ctx context.Context, payload WebhookPayload) (WebhookResult, error) {
	event, err := p.gateway.DecodeWebhookEvent(payload.Body, payload.Signature)
	if err != nil {
		return WebhookResult{}, fmt.Errorf("decode webhook: %w", err)
	}

	result := WebhookResult{
		Action:    actionFor(event.Type),
		EventID:   event.ID,
		EventType: event.Type,
		SessionID: event.ReferenceNumber,
		Amount:    event.Amount,

		ResourceID: event.ResourceID,
		Livemode:   event.Livemode,
	}
	if result.Action != ActionNotSupported && result.SessionID == "" {
		p.logger.WarnContext(ctx, "webhook event without session reference",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		result.Action = ActionNotSupported
	}

	p.logger.InfoContext(ctx, "webhook received",
		"event_id", event.ID,
		"event_type", event.Type,
		"action", result.Action,
		"session_id", result.SessionID,
		"resource_id", event.ResourceID,
		"livemode", event.Livemode,
	)
	if result.Action != ActionNotSupported {
		p.publish(ctx, StatusEvent{
			Kind:            EventWebhookReceived,
			SessionID:       result.SessionID,
			PaymentIntentID: event.PaymentIntentID,
			Action:          result.Action,
			Amount:          event.Amount,
			CurrencyCode:    strings.ToLower(event.Currency),
			Livemode:        event.Livemode,
		})
	}

	return result, nil
}

func (p *Processor) reconcile(ctx context.Context, data SessionData, intent PaymentIntentSnapshot) (SessionStatus, string) {
	expectation := data.Expectation()
	status := Classify(&intent, expectation)

	var mismatch string
	if intent.Status == IntentSucceeded {
		if err := CheckExpectation(intent, expectation); err != nil {
			mismatch = err.Error()
			p.logger.WarnContext(ctx, "payment does not match order",
				"payment_intent_id", intent.ID,
				"checkout_session_id", data.CheckoutSessionID,
				"error", err,
			)
		}
	}

	metrics.ReconciliationsTotal.WithLabelValues(string(status), fmt.Sprint(mismatch != "")).Inc()
	return status, mismatch
}

func (p *Processor) publish(ctx context.Context, event StatusEvent) {
	if p.events == nil {
		return
	}
	event.OccurredAt = p.now().UTC()
	if err := p.events.PublishStatus(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish payment event",
			"kind", event.Kind,
			"session_id", event.SessionID,
			"error", err,
		)
	}
}

func sessionData(in InitiateInput, session CheckoutSession) SessionData {
	data := SessionData{
		SessionID:         in.SessionID,
		CheckoutSessionID: session.ID,
		CheckoutURL:       session.CheckoutURL,
		ClientKey:         session.ClientKey,
		Amount:            in.Amount,
		CurrencyCode:      strings.ToLower(in.CurrencyCode),
		CheckoutStatus:    session.Status,
	}
	if session.PaymentIntent != nil {
		data.PaymentIntentID = session.PaymentIntent.ID
		data.IntentStatus = session.PaymentIntent.Status
	}
	return data
}
