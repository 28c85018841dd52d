package paymongo

import "encoding/json"

// envelope is the JSON:API style wrapper used by every request and response body.
type envelope[T any] struct {
	Data resource[T] `json:"data"`
}

type resource[T any] struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type,omitempty"`
	Attributes T      `json:"attributes"`
}

type lineItem struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type billing struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type createCheckoutAttrs struct {
	Billing            *billing          `json:"billing,omitempty"`
	CancelURL          string            `json:"cancel_url,omitempty"`
	Description        string            `json:"description,omitempty"`
	LineItems          []lineItem        `json:"line_items"`
	PaymentMethodTypes []string          `json:"payment_method_types"`
	ReferenceNumber    string            `json:"reference_number,omitempty"`
	SendEmailReceipt   bool              `json:"send_email_receipt"`
	ShowDescription    bool              `json:"show_description"`
	ShowLineItems      bool              `json:"show_line_items"`
	SuccessURL         string            `json:"success_url,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

type checkoutAttrs struct {
	CheckoutURL     string                 `json:"checkout_url"`
	ReferenceNumber string                 `json:"reference_number"`
	Status          string                 `json:"status"`
	PaymentIntent   *resource[intentAttrs] `json:"payment_intent"`
	Metadata        map[string]string      `json:"metadata"`
}

type intentAttrs struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	ClientKey string `json:"client_key"`
}

type paymentAttrs struct {
	Amount                  int64             `json:"amount"`
	Currency                string            `json:"currency"`
	Status                  string            `json:"status"`
	PaymentIntentID         string            `json:"payment_intent_id"`
	ExternalReferenceNumber string            `json:"external_reference_number"`
	Metadata                map[string]string `json:"metadata"`
}

type eventAttrs struct {
	Type     string                    `json:"type"`
	Livemode bool                      `json:"livemode"`
	Data     resource[json.RawMessage] `json:"data"`
}

type errorBody struct {
	Errors []APIError `json:"errors"`
}
