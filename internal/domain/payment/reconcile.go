package payment

import (
	"fmt"
	"strings"
)

// CheckExpectation compares the vendor charge with the order. Amounts must be
// equal to the minor unit; currency codes are compared case-insensitively.
func CheckExpectation(s PaymentIntentSnapshot, e OrderExpectation) error {
	if s.Amount != e.Total {
		return fmt.Errorf("%w: charged %d, expected %d", ErrAmountMismatch, s.Amount, e.Total)
	}
	if !strings.EqualFold(s.Currency, e.CurrencyCode) {
		return fmt.Errorf("%w: charged %q, expected %q", ErrCurrencyMismatch, s.Currency, e.CurrencyCode)
	}
	return nil
}

// Classify derives the session status from a vendor snapshot and the order it pays for.
//
// A succeeded intent is authorized only when amount and currency match; a succeeded
// intent that disagrees with the order is an error, never a silent success.
func Classify(s *PaymentIntentSnapshot, e OrderExpectation) SessionStatus {
	if s == nil {
		return SessionStatusError
	}
	switch {
	case s.Status == IntentSucceeded:
		if CheckExpectation(*s, e) != nil {
			return SessionStatusError
		}
		return SessionStatusAuthorized
	case s.Status.IsPending():
		return SessionStatusPending
	default:
		return SessionStatusError
	}
}

// ToSessionStatus is Classify without the amount/currency gate, for callers that
// only need the viewing state. A nil snapshot (not fetched) is an error.
func ToSessionStatus(s *PaymentIntentSnapshot) SessionStatus {
	if s == nil {
		return SessionStatusError
	}
	switch {
	case s.Status == IntentSucceeded:
		return SessionStatusAuthorized
	case s.Status.IsPending():
		return SessionStatusPending
	default:
		return SessionStatusError
	}
}
