package messaging

import (
	"context"
	"log/slog"
)

// LogPublisher writes envelopes to the structured log instead of a broker.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(l *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: l.With("component", "log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, env Envelope) error {
	p.logger.InfoContext(ctx, "event",
		"event_id", env.EventID,
		"type", env.Type,
		"key", env.Key,
		"payload", env.Payload,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
