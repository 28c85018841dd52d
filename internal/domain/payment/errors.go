package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when a session is opened for a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrMissingCurrency is returned when no currency code is supplied.
	ErrMissingCurrency = errors.New("currency code is required")

	// ErrMissingSessionData is returned when stored session data lacks the vendor ids a call needs.
	ErrMissingSessionData = errors.New("session data is missing vendor identifiers")

	// ErrAmountMismatch is returned when the vendor charged a different amount than the order total.
	ErrAmountMismatch = errors.New("payment amount does not match order total")

	// ErrCurrencyMismatch is returned when the vendor charged in a different currency.
	ErrCurrencyMismatch = errors.New("payment currency does not match order currency")

	// ErrNotCapturable is returned by capture when the intent has not succeeded yet.
	ErrNotCapturable = errors.New("payment intent is not in a capturable state")

	// ErrSessionNotFound is returned by the gateway when the checkout session does not exist.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrSessionNotActive is returned by the gateway when the checkout session can no longer change.
	ErrSessionNotActive = errors.New("checkout session is not active")

	// ErrInvalidSignature is returned when a webhook signature cannot be verified.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidWebhook is returned when a webhook body cannot be decoded.
	ErrInvalidWebhook = errors.New("invalid webhook payload")

	// ErrOperationNotSupported matches every NotSupportedError.
	ErrOperationNotSupported = errors.New("operation not supported")
)

// NotSupportedError reports a lifecycle operation this provider does not implement.
type NotSupportedError struct {
	Operation Capability
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s: %s is not implemented by this provider", ErrOperationNotSupported, e.Operation)
}

func (e *NotSupportedError) Is(target error) bool {
	return target == ErrOperationNotSupported
}
