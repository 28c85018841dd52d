package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"CommerceAdapters/pkg/correlation"

	"github.com/gin-gonic/gin"
)

const maxBody = 8 * 1024 // 8KB

func limit(b []byte) []byte {
	if len(b) > maxBody {
		return b[:maxBody]
	}
	return b
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(limit(b))
	return r.ResponseWriter.Write(b)
}

// CorrelationMiddleware reads X-Correlation-ID from the request or generates one,
// stores it in the request context and echoes it on the response.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if inbound := c.GetHeader(correlation.HeaderName); inbound != "" {
			ctx = correlation.WithID(ctx, inbound)
		}
		ctx, id := correlation.Ensure(ctx)

		c.Request = c.Request.WithContext(ctx)
		c.Header(correlation.HeaderName, id)

		c.Next()
	}
}

// GinBodyLogger logs every request with its status, latency and (capped) bodies.
// Multipart bodies are not captured so uploads are not buffered twice.
func GinBodyLogger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var requestBody []byte
		if c.Request.Body != nil && c.ContentType() != gin.MIMEMultipartPOSTForm {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		writer := &responseBodyWriter{
			body:           &bytes.Buffer{},
			ResponseWriter: c.Writer,
		}
		c.Writer = writer

		c.Next()

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("query", c.Request.URL.RawQuery),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			maybeJSON("request_body", limit(requestBody)),
		}
		if c.Writer.Header().Get("Content-Type") != "application/octet-stream" {
			attrs = append(attrs, maybeJSON("response_body", writer.body.Bytes()))
		}

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		l.LogAttrs(c.Request.Context(), level, "HTTP Request", attrs...)
	}
}

func maybeJSON(key string, b []byte) slog.Attr {
	bb := bytes.TrimSpace(b)
	if len(bb) == 0 {
		return slog.Any(key, nil)
	}
	if json.Valid(bb) {
		return slog.Any(key, json.RawMessage(bb))
	}
	return slog.String(key, string(bb))
}
