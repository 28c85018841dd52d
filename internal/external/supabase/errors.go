package supabase

import (
	"errors"
	"fmt"
	"net/http"

	"CommerceAdapters/internal/domain/file"
)

var (
	ErrMissingAPIKey      = errors.New("supabase api key is required")
	ErrMissingProjectURL  = errors.New("supabase project url or reference id is required")
	ErrUnexpectedResponse = errors.New("unexpected supabase response")
)

// HTTPError is a non-2xx response from the storage API.
type HTTPError struct {
	StatusCode int
	StatusText string
	// Code and Message come from the storage error body when present.
	Code    string
	Message string
	// bodyStatus is the "statusCode" field of the error body, which can differ from the HTTP status.
	bodyStatus string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("supabase storage: %d %s: %s", e.StatusCode, e.StatusText, e.Message)
	}
	return fmt.Sprintf("supabase storage: %d %s", e.StatusCode, e.StatusText)
}

// Is matches file.ErrObjectNotFound. Storage reports missing objects either as a
// 404 or as a 400 carrying statusCode "404" in the body.
func (e *HTTPError) Is(target error) bool {
	if target != file.ErrObjectNotFound {
		return false
	}
	return e.StatusCode == http.StatusNotFound || e.bodyStatus == "404" || e.Code == "not_found"
}
