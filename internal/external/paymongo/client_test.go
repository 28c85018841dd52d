//go:build !integration

package paymongo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CommerceAdapters/internal/domain/payment"
	"CommerceAdapters/pkg/correlation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutResponse = `{
  "data": {
    "id": "cs_123",
    "type": "checkout_session",
    "attributes": {
      "checkout_url": "https://checkout.paymongo.com/cs_123",
      "reference_number": "payses_01",
      "status": "active",
      "payment_intent": {
        "id": "pi_123",
        "type": "payment_intent",
        "attributes": {
          "amount": 5000,
          "currency": "PHP",
          "status": "awaiting_payment_method",
          "client_key": "pi_123_client_abc"
        }
      }
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		APIKey:     "sk_test_123",
		BaseURL:    server.URL,
		SuccessURL: "https://shop.example.com/success",
		CancelURL:  "https://shop.example.com/cancel",
	}, &http.Client{Timeout: 5 * time.Second})
	require.NoError(t, err)

	return client
}

func TestNew(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := New(Config{}, nil)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("applies defaults", func(t *testing.T) {
		c, err := New(Config{APIKey: "sk"}, nil)
		require.NoError(t, err)

		assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
		assert.Equal(t, defaultPaymentMethodTypes, c.cfg.PaymentMethodTypes)
		assert.Equal(t, "Order", c.cfg.LineItemName)
		assert.NotNil(t, c.HTTP)
	})
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	t.Run("sends basic auth and upper-cased currency", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/checkout_sessions", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("sk_test_123:"))
			assert.Equal(t, expectedAuth, r.Header.Get("Authorization"))

			var body envelope[createCheckoutAttrs]
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			attrs := body.Data.Attributes
			require.Len(t, attrs.LineItems, 1)
			assert.Equal(t, int64(5000), attrs.LineItems[0].Amount)
			assert.Equal(t, "PHP", attrs.LineItems[0].Currency)
			assert.Equal(t, 1, attrs.LineItems[0].Quantity)
			assert.Equal(t, "payses_01", attrs.ReferenceNumber)
			assert.Equal(t, "payses_01", attrs.Metadata["session_id"])
			assert.Equal(t, "https://shop.example.com/success", attrs.SuccessURL)
			assert.Equal(t, defaultPaymentMethodTypes, attrs.PaymentMethodTypes)
			require.NotNil(t, attrs.Billing)
			assert.Equal(t, "Juan Cruz", attrs.Billing.Name)

			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(checkoutResponse))
		})

		session, err := client.CreateCheckoutSession(context.Background(), payment.CheckoutRequest{
			ReferenceNumber: "payses_01",
			Amount:          5000,
			CurrencyCode:    "php",
			Customer:        &payment.Customer{FirstName: "Juan", LastName: "Cruz", Email: "juan@example.com"},
		})

		require.NoError(t, err)
		assert.Equal(t, "cs_123", session.ID)
		assert.Equal(t, "https://checkout.paymongo.com/cs_123", session.CheckoutURL)
		assert.Equal(t, "pi_123_client_abc", session.ClientKey)
		require.NotNil(t, session.PaymentIntent)
		assert.Equal(t, payment.PaymentIntentSnapshot{
			ID:       "pi_123",
			Amount:   5000,
			Currency: "php",
			Status:   payment.IntentAwaitingPaymentMethod,
		}, *session.PaymentIntent)
	})

	t.Run("returns HTTPError with vendor details", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"code":"parameter_below_minimum","detail":"amount cannot be less than 2000"}]}`))
		})

		_, err := client.CreateCheckoutSession(context.Background(), payment.CheckoutRequest{Amount: 100, CurrencyCode: "php"})

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
		assert.Equal(t, "Bad Request", httpErr.StatusText)
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "parameter_below_minimum", httpErr.Errors[0].Code)
		assert.Contains(t, err.Error(), "amount cannot be less than 2000")
	})

	t.Run("does not retry server errors", func(t *testing.T) {
		attempts := 0
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.CreateCheckoutSession(context.Background(), payment.CheckoutRequest{Amount: 5000, CurrencyCode: "php"})

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("undecodable success body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := client.CreateCheckoutSession(context.Background(), payment.CheckoutRequest{Amount: 5000, CurrencyCode: "php"})

		assert.ErrorIs(t, err, ErrUnexpectedResponse)
	})
}

func TestClient_GetPaymentIntent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)

		_, _ = w.Write([]byte(`{"data":{"id":"pi_123","type":"payment_intent","attributes":{"amount":5000,"currency":"PHP","status":"succeeded"}}}`))
	})

	snapshot, err := client.GetPaymentIntent(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, payment.PaymentIntentSnapshot{
		ID: "pi_123", Amount: 5000, Currency: "php", Status: payment.IntentSucceeded,
	}, snapshot)
}

func TestClient_ExpireCheckoutSession(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expectedErr error
	}{
		{
			name:   "expired",
			status: http.StatusOK,
			body:   `{"data":{"id":"cs_123","attributes":{"status":"expired"}}}`,
		},
		{
			name:        "unknown session",
			status:      http.StatusNotFound,
			body:        `{"errors":[{"code":"resource_not_found","detail":"No such checkout_session"}]}`,
			expectedErr: payment.ErrSessionNotFound,
		},
		{
			name:        "session already paid",
			status:      http.StatusBadRequest,
			body:        `{"errors":[{"code":"resource_failed_state","detail":"Checkout session is not active"}]}`,
			expectedErr: payment.ErrSessionNotActive,
		},
		{
			name:   "parameter error is not a state error",
			status: http.StatusBadRequest,
			body:   `{"errors":[{"code":"parameter_invalid","detail":"id is invalid"}]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/checkout_sessions/cs_123/expire", r.URL.Path)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			session, err := client.ExpireCheckoutSession(context.Background(), "cs_123")

			if tc.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, "expired", session.Status)
				return
			}
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			if tc.expectedErr == nil {
				assert.NotErrorIs(t, err, payment.ErrSessionNotActive)
				assert.NotErrorIs(t, err, payment.ErrSessionNotFound)
				return
			}
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestClient_GetCheckoutSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout_sessions/cs_123", r.URL.Path)
		_, _ = w.Write([]byte(checkoutResponse))
	})

	session, err := client.GetCheckoutSession(context.Background(), "cs_123")

	require.NoError(t, err)
	assert.Equal(t, "payses_01", session.ReferenceNumber)
	assert.Equal(t, "active", session.Status)
}

func TestClient_Ping(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/merchants/capabilities/payment_methods", r.URL.Path)
			_, _ = w.Write([]byte(`["card","gcash"]`))
		})
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("bad credentials", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		var httpErr *HTTPError
		assert.ErrorAs(t, client.Ping(context.Background()), &httpErr)
	})
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetPaymentIntent(ctx, "pi_123")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ForwardsCorrelationID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "corr-1", r.Header.Get(correlation.HeaderName))
		_, _ = w.Write([]byte(`{"data":{"id":"pi_123","attributes":{"amount":1,"currency":"PHP","status":"processing"}}}`))
	})

	_, err := client.GetPaymentIntent(correlation.WithID(context.Background(), "corr-1"), "pi_123")

	assert.NoError(t, err)
}

func TestClient_ParameterErrorFailsDelete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":"parameter_invalid","detail":"id is invalid"}]}`))
	})
	p := payment.NewProcessor(client, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := p.DeletePayment(context.Background(), payment.SessionData{CheckoutSessionID: "cs_bad"})

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
}
