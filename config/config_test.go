package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PAYMONGO_SECRET_KEY", "sk_test")
	t.Setenv("SUPABASE_API_KEY", "service-key")
	t.Setenv("SUPABASE_REFERENCE_ID", "abcdef")
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()

	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "https://api.paymongo.com/v1", cfg.PaymongoBaseURL)
	assert.Equal(t, "medusa-media", cfg.SupabaseBucketName)
	assert.Equal(t, time.Hour, cfg.SupabaseSignedURLTTL)
	assert.Equal(t, 20*time.Second, cfg.HTTPPaymongoClientTimeout)
	assert.Equal(t, EventsModeLog, cfg.PaymentEventsMode)
	assert.Equal(t, "payments.events", cfg.KafkaPaymentEventsTopic)
}

func TestNew_ListsAndDurations(t *testing.T) {
	setRequired(t)
	t.Setenv("PAYMONGO_PAYMENT_METHOD_TYPES", "card,gcash")
	t.Setenv("PAYMENT_EVENTS_MODE", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SUPABASE_SIGNED_URL_TTL", "15m")

	cfg, err := New()

	require.NoError(t, err)
	assert.Equal(t, []string{"card", "gcash"}, cfg.PaymongoPaymentMethodTypes)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 15*time.Minute, cfg.SupabaseSignedURLTTL)
}

func TestNew_Invalid(t *testing.T) {
	testCases := []struct {
		name        string
		env         map[string]string
		expectedErr error
	}{
		{
			name:        "unknown events mode",
			env:         map[string]string{"PAYMENT_EVENTS_MODE": "sqs"},
			expectedErr: ErrInvalidEventsMode,
		},
		{
			name:        "kafka without brokers",
			env:         map[string]string{"PAYMENT_EVENTS_MODE": "kafka"},
			expectedErr: ErrMissingBrokers,
		},
		{
			name:        "no supabase project",
			env:         map[string]string{"SUPABASE_REFERENCE_ID": ""},
			expectedErr: ErrMissingSupabase,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := New()

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestNew_MissingSecretKey(t *testing.T) {
	setRequired(t)
	t.Setenv("PAYMONGO_SECRET_KEY", "")

	_, err := New()

	assert.Error(t, err)
}
