package handlers

import (
	"context"
	"errors"
	"net/http"

	"CommerceAdapters/internal/domain/file"
	"CommerceAdapters/internal/domain/payment"
	"CommerceAdapters/internal/external/paymongo"
	"CommerceAdapters/internal/external/supabase"

	"github.com/gin-gonic/gin"
)

var errInvalidBody = errors.New("invalid request body")

// writeError maps domain and vendor errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		paymongoErr *paymongo.HTTPError
		supabaseErr *supabase.HTTPError
	)

	switch {
	case errors.Is(err, payment.ErrOperationNotSupported):
		c.JSON(http.StatusNotImplemented, gin.H{"message": err.Error()})
	case errors.Is(err, payment.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, errInvalidBody),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrMissingCurrency),
		errors.Is(err, payment.ErrMissingSessionData),
		errors.Is(err, payment.ErrInvalidWebhook),
		errors.Is(err, file.ErrEmptyKey),
		errors.Is(err, file.ErrEmptyFilename):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, file.ErrObjectNotFound), errors.Is(err, payment.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, payment.ErrNotCapturable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.As(err, &paymongoErr):
		c.JSON(http.StatusBadGateway, gin.H{"message": err.Error(), "vendor_status": paymongoErr.StatusCode})
	case errors.As(err, &supabaseErr):
		c.JSON(http.StatusBadGateway, gin.H{"message": err.Error(), "vendor_status": supabaseErr.StatusCode})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
