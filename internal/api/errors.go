package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers missing, invalid or expired tokens (HTTP 401/403).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers lookups that missed (HTTP 404 and success:false
	// barcode misses).
	ErrNotFound = errors.New("not found")

	// ErrUnavailable covers network failures, timeouts and 5xx responses.
	ErrUnavailable = errors.New("backend unavailable")
)

// ValidationError carries backend field-level messages (HTTP 422).
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation error"
}

// FieldMessage returns the first message for a field, or the top-level
// message when the backend provided none for that field.
func (e *ValidationError) FieldMessage(field string) string {
	if msgs, ok := e.Fields[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return e.Message
}

// APIError is the fallback for responses that do not map to a sentinel:
// unexpected statuses and success:false envelopes.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}
