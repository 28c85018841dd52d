package payment

import (
	"slices"
	"strings"
)

// SessionStatus is the platform's payment-session state as reported by this provider.
type SessionStatus string

const (
	SessionStatusAuthorized SessionStatus = "authorized"
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusError      SessionStatus = "error"
	SessionStatusCaptured   SessionStatus = "captured"
	SessionStatusCanceled   SessionStatus = "canceled"
)

// IntentStatus is the vendor's payment-intent status string. The set is open ended;
// only the values below carry meaning for reconciliation.
type IntentStatus string

const (
	IntentSucceeded             IntentStatus = "succeeded"
	IntentAwaitingNextAction    IntentStatus = "awaiting_next_action"
	IntentAwaitingPaymentMethod IntentStatus = "awaiting_payment_method"
	IntentProcessing            IntentStatus = "processing"
)

var pendingIntentStatuses = []IntentStatus{
	IntentAwaitingNextAction,
	IntentAwaitingPaymentMethod,
	IntentProcessing,
}

// IsPending reports whether the intent is still waiting on the customer or the vendor.
func (s IntentStatus) IsPending() bool {
	return slices.Contains(pendingIntentStatuses, s)
}

// PaymentIntentSnapshot is the vendor-reported view of one payment attempt.
// A fresh snapshot is fetched for every query.
type PaymentIntentSnapshot struct {
	ID       string       `json:"id"`
	Amount   int64        `json:"amount"`
	Currency string       `json:"currency"`
	Status   IntentStatus `json:"status"`
}

// OrderExpectation is the platform's authoritative charge for a session.
type OrderExpectation struct {
	Total        int64  `json:"total"`
	CurrencyCode string `json:"currency_code"`
}

// NewOrderExpectation normalises the currency code to lower case.
func NewOrderExpectation(total int64, currencyCode string) OrderExpectation {
	return OrderExpectation{Total: total, CurrencyCode: strings.ToLower(currencyCode)}
}

// SessionData is the provider data the platform stores on its payment session and
// hands back on every subsequent lifecycle call.
type SessionData struct {
	SessionID         string       `json:"session_id,omitempty"`
	CheckoutSessionID string       `json:"checkout_session_id"`
	CheckoutURL       string       `json:"checkout_url,omitempty"`
	PaymentIntentID   string       `json:"payment_intent_id,omitempty"`
	ClientKey         string       `json:"client_key,omitempty"`
	Amount            int64        `json:"amount"`
	CurrencyCode      string       `json:"currency_code"`
	CheckoutStatus    string       `json:"checkout_status,omitempty"`
	IntentStatus      IntentStatus `json:"intent_status,omitempty"`
}

// Expectation returns the amount/currency the session was opened for.
func (d SessionData) Expectation() OrderExpectation {
	return NewOrderExpectation(d.Amount, d.CurrencyCode)
}

// Customer carries optional billing details forwarded to the hosted checkout page.
type Customer struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// FullName joins first and last name.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// InitiateInput is the platform's request to open a payment session.
type InitiateInput struct {
	SessionID    string    `json:"session_id"`
	Amount       int64     `json:"amount"`
	CurrencyCode string    `json:"currency_code"`
	Description  string    `json:"description,omitempty"`
	Customer     *Customer `json:"customer,omitempty"`
}

func (in InitiateInput) Validate() error {
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.CurrencyCode) == "" {
		return ErrMissingCurrency
	}
	return nil
}

// UpdateInput re-opens a session when the cart total or currency changed.
type UpdateInput struct {
	InitiateInput
	Data SessionData `json:"data"`
}

// PaymentResponse is what every lifecycle call returns to the platform.
type PaymentResponse struct {
	ID     string        `json:"id,omitempty"`
	Status SessionStatus `json:"status,omitempty"`
	Data   SessionData   `json:"data"`
}
