// ABOUTME: Typed errors returned by the session gateway
// ABOUTME: Classifies every failed call into a closed set of kinds

package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a failed call
type Kind int

const (
	// KindTransport covers network failures, timeouts and cancellation
	KindTransport Kind = iota + 1
	// KindUnauthorized is a 401; the session has already been torn down
	KindUnauthorized
	// KindPasswordChangeRequired is a 451 from sign-in
	KindPasswordChangeRequired
	// KindStatus is any other non-2xx response
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindPasswordChangeRequired:
		return "password_change_required"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// StatusPasswordChangeRequired is the status the API uses to demand a new password
const StatusPasswordChangeRequired = 451

// Error is returned by Gateway for every failed call
type Error struct {
	Kind   Kind
	Method string
	Path   string
	Status int
	Body   []byte
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "request failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindPasswordChangeRequired:
		return "password change required"
	default:
		if msg := e.Message(); msg != "" {
			return fmt.Sprintf("API error (status %d): %s", e.Status, msg)
		}
		return fmt.Sprintf("API returned status %d", e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the optional "message" field of the response body
func (e *Error) Message() string {
	if len(e.Body) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	return body.Message
}

// IsKind reports whether err is an *Error of kind k
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// MessageOr returns the server message carried by err, or fallback
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}
