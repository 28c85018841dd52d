package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EventsModeLog   = "log"
	EventsModeKafka = "kafka"
)

var (
	ErrInvalidEventsMode = errors.New("invalid PAYMENT_EVENTS_MODE")
	ErrMissingBrokers    = errors.New("KAFKA_BROKERS is required in kafka events mode")
	ErrMissingSupabase   = errors.New("SUPABASE_PROJECT_URL or SUPABASE_REFERENCE_ID is required")
)

type Config struct {
	Port            int           `env:"PORT" envDefault:"3000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	PaymongoSecretKey          string        `env:"PAYMONGO_SECRET_KEY,required,notEmpty"`
	PaymongoBaseURL            string        `env:"PAYMONGO_BASE_URL" envDefault:"https://api.paymongo.com/v1"`
	PaymongoWebhookSecret      string        `env:"PAYMONGO_WEBHOOK_SECRET"`
	PaymongoWebhookTolerance   time.Duration `env:"PAYMONGO_WEBHOOK_TOLERANCE" envDefault:"5m"`
	PaymongoSuccessURL         string        `env:"PAYMONGO_SUCCESS_URL"`
	PaymongoCancelURL          string        `env:"PAYMONGO_CANCEL_URL"`
	PaymongoPaymentMethodTypes []string      `env:"PAYMONGO_PAYMENT_METHOD_TYPES" envSeparator:","`
	PaymongoLineItemName       string        `env:"PAYMONGO_LINE_ITEM_NAME" envDefault:"Order"`
	PaymongoSendEmailReceipt   bool          `env:"PAYMONGO_SEND_EMAIL_RECEIPT" envDefault:"false"`
	HTTPPaymongoClientTimeout  time.Duration `env:"HTTP_PAYMONGO_CLIENT_TIMEOUT" envDefault:"20s"`

	SupabaseAPIKey            string        `env:"SUPABASE_API_KEY,required,notEmpty"`
	SupabaseProjectURL        string        `env:"SUPABASE_PROJECT_URL"`
	SupabaseReferenceID       string        `env:"SUPABASE_REFERENCE_ID"`
	SupabaseBucketName        string        `env:"SUPABASE_BUCKET_NAME" envDefault:"medusa-media"`
	SupabaseSignedURLTTL      time.Duration `env:"SUPABASE_SIGNED_URL_TTL" envDefault:"1h"`
	HTTPSupabaseClientTimeout time.Duration `env:"HTTP_SUPABASE_CLIENT_TIMEOUT" envDefault:"20s"`

	// Payment event publishing: "log" (structured log only) or "kafka"
	PaymentEventsMode       string   `env:"PAYMENT_EVENTS_MODE" envDefault:"log"`
	KafkaBrokers            []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaPaymentEventsTopic string   `env:"KAFKA_PAYMENT_EVENTS_TOPIC" envDefault:"payments.events"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) validate() error {
	switch c.PaymentEventsMode {
	case EventsModeLog:
	case EventsModeKafka:
		if len(c.KafkaBrokers) == 0 {
			return ErrMissingBrokers
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEventsMode, c.PaymentEventsMode)
	}

	if c.SupabaseProjectURL == "" && c.SupabaseReferenceID == "" {
		return ErrMissingSupabase
	}
	return nil
}
