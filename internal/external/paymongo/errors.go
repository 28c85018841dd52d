package paymongo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAPIKey is returned by New when no secret key is configured.
	ErrMissingAPIKey = errors.New("paymongo: api key is required")

	// ErrUnexpectedResponse is returned when a 2xx body cannot be decoded.
	ErrUnexpectedResponse = errors.New("paymongo: unexpected response body")
)

// codeInvalidState is reported when a resource's state forbids the requested action,
// e.g. expiring a checkout session that was already paid or expired.
const codeInvalidState = "resource_failed_state"

// APIError is one entry of the vendor's error list.
type APIError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// HTTPError is returned for every non-2xx vendor response. It is never retried.
type HTTPError struct {
	StatusCode int
	StatusText string
	Errors     []APIError
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("paymongo: %d %s", e.StatusCode, e.StatusText)
	if len(e.Errors) == 0 {
		return msg
	}
	details := make([]string, 0, len(e.Errors))
	for _, ae := range e.Errors {
		details = append(details, ae.Code+": "+ae.Detail)
	}
	return msg + ": " + strings.Join(details, "; ")
}

// HasCode reports whether the vendor listed code among the response errors.
func (e *HTTPError) HasCode(code string) bool {
	for _, ae := range e.Errors {
		if ae.Code == code {
			return true
		}
	}
	return false
}
