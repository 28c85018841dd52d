package paymongo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CommerceAdapters/internal/domain/payment"
)

// SignatureHeader is the header PayMongo signs webhook deliveries with.
const SignatureHeader = "Paymongo-Signature"

type signature struct {
	timestamp string
	test      string
	live      string
}

// parseSignature reads "t=<unix>,te=<hex>,li=<hex>".
func parseSignature(header string) (signature, error) {
	var sig signature
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			sig.timestamp = v
		case "te":
			sig.test = v
		case "li":
			sig.live = v
		}
	}
	if sig.timestamp == "" {
		return signature{}, fmt.Errorf("%w: missing timestamp", payment.ErrInvalidSignature)
	}
	return sig, nil
}

// Sign computes the hex HMAC-SHA256 of "<timestamp>.<body>".
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) verify(header string, body []byte, livemode bool) error {
	sig, err := parseSignature(header)
	if err != nil {
		return err
	}

	if c.cfg.WebhookTolerance > 0 {
		ts, err := strconv.ParseInt(sig.timestamp, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: bad timestamp", payment.ErrInvalidSignature)
		}
		if skew := c.now().Sub(time.Unix(ts, 0)).Abs(); skew > c.cfg.WebhookTolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", payment.ErrInvalidSignature)
		}
	}

	expected := sig.test
	if livemode {
		expected = sig.live
	}
	computed := Sign(c.cfg.WebhookSecret, sig.timestamp, body)
	if expected == "" || !hmac.Equal([]byte(expected), []byte(computed)) {
		return payment.ErrInvalidSignature
	}
	return nil
}

// DecodeWebhookEvent verifies (when a secret is configured) and flattens an event delivery.
func (c *Client) DecodeWebhookEvent(body []byte, signatureHeader string) (payment.WebhookEvent, error) {
	var env envelope[eventAttrs]
	if err := json.Unmarshal(body, &env); err != nil {
		return payment.WebhookEvent{}, fmt.Errorf("%w: %v", payment.ErrInvalidWebhook, err)
	}
	attrs := env.Data.Attributes

	if c.cfg.WebhookSecret != "" {
		if err := c.verify(signatureHeader, body, attrs.Livemode); err != nil {
			return payment.WebhookEvent{}, err
		}
	}

	event := payment.WebhookEvent{
		ID:         env.Data.ID,
		Type:       attrs.Type,
		Livemode:   attrs.Livemode,
		ResourceID: attrs.Data.ID,
	}

	switch attrs.Data.Type {
	case "checkout_session":
		var cs checkoutAttrs
		if err := json.Unmarshal(attrs.Data.Attributes, &cs); err != nil {
			return payment.WebhookEvent{}, fmt.Errorf("%w: checkout_session: %v", payment.ErrInvalidWebhook, err)
		}
		event.ReferenceNumber = cs.ReferenceNumber
		if event.ReferenceNumber == "" {
			event.ReferenceNumber = cs.Metadata["session_id"]
		}
		if cs.PaymentIntent != nil {
			event.PaymentIntentID = cs.PaymentIntent.ID
			event.Amount = cs.PaymentIntent.Attributes.Amount
			event.Currency = strings.ToLower(cs.PaymentIntent.Attributes.Currency)
		}
	case "payment":
		var p paymentAttrs
		if err := json.Unmarshal(attrs.Data.Attributes, &p); err != nil {
			return payment.WebhookEvent{}, fmt.Errorf("%w: payment: %v", payment.ErrInvalidWebhook, err)
		}
		event.ReferenceNumber = p.Metadata["session_id"]
		if event.ReferenceNumber == "" {
			event.ReferenceNumber = p.ExternalReferenceNumber
		}
		event.PaymentIntentID = p.PaymentIntentID
		event.Amount = p.Amount
		event.Currency = strings.ToLower(p.Currency)
	}

	return event, nil
}
