// Package paymongo is the HTTP client for the PayMongo checkout and payment-intent API.
package paymongo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CommerceAdapters/internal/domain/payment"
	"CommerceAdapters/pkg/correlation"
	"CommerceAdapters/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.paymongo.com/v1"
	vendorName     = "paymongo"
)

var defaultPaymentMethodTypes = []string{"card", "gcash", "paymaya", "grab_pay"}

// Config is the explicit configuration of a Client.
type Config struct {
	// APIKey is the secret key; it is sent as the Basic-auth username with an empty password.
	APIKey string
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string
	// WebhookSecret enables Paymongo-Signature verification when non-empty.
	WebhookSecret string
	// WebhookTolerance rejects signatures whose timestamp is further than this from now,
	// in either direction; zero disables the check.
	WebhookTolerance time.Duration

	SuccessURL         string
	CancelURL          string
	PaymentMethodTypes []string
	// LineItemName labels the single line item shown on the hosted page. Defaults to "Order".
	LineItemName     string
	SendEmailReceipt bool
}

type Client struct {
	cfg        Config
	authHeader string
	HTTP       *http.Client
	now        func() time.Time
}

var _ payment.Gateway = (*Client)(nil)

func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if len(cfg.PaymentMethodTypes) == 0 {
		cfg.PaymentMethodTypes = defaultPaymentMethodTypes
	}
	if cfg.LineItemName == "" {
		cfg.LineItemName = "Order"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		cfg:        cfg,
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.APIKey+":")),
		HTTP:       httpClient,
		now:        time.Now,
	}, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (payment.CheckoutSession, error) {
	attrs := createCheckoutAttrs{
		CancelURL:   c.cfg.CancelURL,
		Description: req.Description,
		LineItems: []lineItem{{
			Amount:   req.Amount,
			Currency: strings.ToUpper(req.CurrencyCode),
			Name:     c.cfg.LineItemName,
			Quantity: 1,
		}},
		PaymentMethodTypes: c.cfg.PaymentMethodTypes,
		ReferenceNumber:    req.ReferenceNumber,
		SendEmailReceipt:   c.cfg.SendEmailReceipt,
		ShowDescription:    req.Description != "",
		ShowLineItems:      true,
		SuccessURL:         c.cfg.SuccessURL,
	}
	if req.ReferenceNumber != "" {
		attrs.Metadata = map[string]string{"session_id": req.ReferenceNumber}
	}
	if req.Customer != nil {
		attrs.Billing = &billing{
			Name:  req.Customer.FullName(),
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		}
	}

	body := envelope[createCheckoutAttrs]{Data: resource[createCheckoutAttrs]{Attributes: attrs}}

	var out envelope[checkoutAttrs]
	if err := c.do(ctx, "create_checkout_session", http.MethodPost, "/checkout_sessions", body, &out); err != nil {
		return payment.CheckoutSession{}, err
	}
	return toCheckoutSession(out.Data), nil
}

func (c *Client) GetCheckoutSession(ctx context.Context, id string) (payment.CheckoutSession, error) {
	var out envelope[checkoutAttrs]
	err := c.do(ctx, "get_checkout_session", http.MethodGet, "/checkout_sessions/"+url.PathEscape(id), nil, &out)
	if err != nil {
		return payment.CheckoutSession{}, sessionError(err)
	}
	return toCheckoutSession(out.Data), nil
}

func (c *Client) ExpireCheckoutSession(ctx context.Context, id string) (payment.CheckoutSession, error) {
	var out envelope[checkoutAttrs]
	err := c.do(ctx, "expire_checkout_session", http.MethodPost, "/checkout_sessions/"+url.PathEscape(id)+"/expire", nil, &out)
	if err != nil {
		return payment.CheckoutSession{}, sessionError(err)
	}
	return toCheckoutSession(out.Data), nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, id string) (payment.PaymentIntentSnapshot, error) {
	var out envelope[intentAttrs]
	if err := c.do(ctx, "get_payment_intent", http.MethodGet, "/payment_intents/"+url.PathEscape(id), nil, &out); err != nil {
		return payment.PaymentIntentSnapshot{}, err
	}
	return toSnapshot(out.Data), nil
}

// Ping checks credentials and reachability via the merchant capabilities endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "/merchants/capabilities/payment_methods", nil, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		j, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(j)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	httpReq.Header.Set("Authorization", c.authHeader)
	httpReq.Header.Set("Accept", "application/json")
	if id := correlation.FromContext(ctx); id != "" {
		httpReq.Header.Set(correlation.HeaderName, id)
	}
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		metrics.ObserveVendorCall(vendorName, operation, 0, started)
		return fmt.Errorf("http %s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.ObserveVendorCall(vendorName, operation, resp.StatusCode, started)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	if resp.StatusCode/100 != 2 {
		return newHTTPError(resp, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedResponse, operation, err)
	}
	return nil
}

func newHTTPError(resp *http.Response, raw []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		httpErr.Errors = body.Errors
	}
	return httpErr
}

// sessionError tags vendor errors on checkout-session endpoints with the domain
// sentinels the processor branches on. Only a 400 carrying the invalid-state code
// means the session left the active state; other 400s pass through untagged.
func sessionError(err error) error {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}
	switch {
	case httpErr.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", payment.ErrSessionNotFound, err)
	case httpErr.StatusCode == http.StatusBadRequest && httpErr.HasCode(codeInvalidState):
		return fmt.Errorf("%w: %w", payment.ErrSessionNotActive, err)
	default:
		return err
	}
}

func toSnapshot(r resource[intentAttrs]) payment.PaymentIntentSnapshot {
	return payment.PaymentIntentSnapshot{
		ID:       r.ID,
		Amount:   r.Attributes.Amount,
		Currency: strings.ToLower(r.Attributes.Currency),
		Status:   payment.IntentStatus(r.Attributes.Status),
	}
}

func toCheckoutSession(r resource[checkoutAttrs]) payment.CheckoutSession {
	session := payment.CheckoutSession{
		ID:              r.ID,
		CheckoutURL:     r.Attributes.CheckoutURL,
		Status:          r.Attributes.Status,
		ReferenceNumber: r.Attributes.ReferenceNumber,
	}
	if pi := r.Attributes.PaymentIntent; pi != nil {
		snapshot := toSnapshot(*pi)
		session.PaymentIntent = &snapshot
		session.ClientKey = pi.Attributes.ClientKey
	}
	return session
}
