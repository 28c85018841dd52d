package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"CommerceAdapters/config"
	httpcontroller "CommerceAdapters/internal/controller/http"
	"CommerceAdapters/internal/controller/http/handlers"
	"CommerceAdapters/internal/domain/file"
	"CommerceAdapters/internal/domain/payment"
	"CommerceAdapters/internal/external/kafka"
	"CommerceAdapters/internal/external/paymongo"
	"CommerceAdapters/internal/external/supabase"
	"CommerceAdapters/internal/messaging"
	"CommerceAdapters/pkg/health"
	"CommerceAdapters/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Run wires the adapters and serves HTTP until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	l := logger.Setup(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	engine, publisher, err := build(cfg, l)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			l.Error("failed to close publisher", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("starting HTTP server", "port", cfg.Port, "events_mode", cfg.PaymentEventsMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func build(cfg config.Config, l *slog.Logger) (*gin.Engine, messaging.Publisher, error) {
	paymongoClient, err := paymongo.New(paymongoConfig(cfg), &http.Client{Timeout: cfg.HTTPPaymongoClientTimeout})
	if err != nil {
		return nil, nil, fmt.Errorf("app - build - paymongo.New: %w", err)
	}
	supabaseClient, err := supabase.New(supabaseConfig(cfg), &http.Client{Timeout: cfg.HTTPSupabaseClientTimeout})
	if err != nil {
		return nil, nil, fmt.Errorf("app - build - supabase.New: %w", err)
	}

	healthRegistry := health.NewRegistry(
		health.NewPingChecker("paymongo", paymongoClient),
		health.NewPingChecker("supabase", supabaseClient),
	)

	publisher := newPublisher(cfg, l, healthRegistry)
	events := messaging.NewPaymentEventSink(publisher, cfg.PaymentEventsMode)

	processor := payment.NewProcessor(paymongoClient, events, l)
	files := file.NewService(supabaseClient, cfg.SupabaseSignedURLTTL, l)

	engine := NewGinEngine(l)
	router := httpcontroller.NewRouter(
		handlers.NewPaymentHandler(processor),
		handlers.NewFileHandler(files),
		healthRegistry,
	)
	router.SetUp(engine)

	return engine, publisher, nil
}

func newPublisher(cfg config.Config, l *slog.Logger, registry *health.Registry) messaging.Publisher {
	if cfg.PaymentEventsMode == config.EventsModeKafka {
		registry.Register(health.NewKafkaChecker(cfg.KafkaBrokers, cfg.KafkaPaymentEventsTopic))
		return kafka.NewPublisher(l, cfg.KafkaBrokers, cfg.KafkaPaymentEventsTopic)
	}
	return messaging.NewLogPublisher(l)
}

func paymongoConfig(cfg config.Config) paymongo.Config {
	return paymongo.Config{
		APIKey:             cfg.PaymongoSecretKey,
		BaseURL:            cfg.PaymongoBaseURL,
		WebhookSecret:      cfg.PaymongoWebhookSecret,
		WebhookTolerance:   cfg.PaymongoWebhookTolerance,
		SuccessURL:         cfg.PaymongoSuccessURL,
		CancelURL:          cfg.PaymongoCancelURL,
		PaymentMethodTypes: cfg.PaymongoPaymentMethodTypes,
		LineItemName:       cfg.PaymongoLineItemName,
		SendEmailReceipt:   cfg.PaymongoSendEmailReceipt,
	}
}

func supabaseConfig(cfg config.Config) supabase.Config {
	return supabase.Config{
		APIKey:      cfg.SupabaseAPIKey,
		ProjectURL:  cfg.SupabaseProjectURL,
		ReferenceID: cfg.SupabaseReferenceID,
		BucketName:  cfg.SupabaseBucketName,
	}
}
