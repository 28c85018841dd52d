package logger

import (
	"context"
	"log/slog"

	"CommerceAdapters/pkg/correlation"
)

// correlationHandler stamps correlation_id on records logged with a request context.
// Enabled is inherited from the wrapped handler.
type correlationHandler struct {
	slog.Handler
}

func withCorrelation(h slog.Handler) slog.Handler {
	if _, ok := h.(correlationHandler); ok {
		return h
	}
	return correlationHandler{Handler: h}
}

func (h correlationHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := correlation.FromContext(ctx); id != "" {
		r = r.Clone()
		r.AddAttrs(slog.String("correlation_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h correlationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return correlationHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h correlationHandler) WithGroup(name string) slog.Handler {
	return correlationHandler{Handler: h.Handler.WithGroup(name)}
}
