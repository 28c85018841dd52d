// Package correlation carries a per-request correlation ID through contexts,
// outbound vendor calls and published events.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName is the HTTP header used for the correlation ID, inbound and outbound.
const HeaderName = "X-Correlation-ID"

// KafkaHeaderName is the Kafka message header that carries the correlation ID.
const KafkaHeaderName = "x-correlation-id"

type contextKey struct{}

// FromContext returns the correlation ID stored in ctx, or "" when absent.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Ensure returns ctx unchanged when it already has an ID, otherwise a context
// with a freshly generated one.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := NewID()
	return WithID(ctx, id), id
}

// NewID generates a new correlation ID (UUID v4).
func NewID() string {
	return uuid.NewString()
}
