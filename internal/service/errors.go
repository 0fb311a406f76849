package service

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is matched by every error that means the session is
// missing, expired, or rejected.
var ErrUnauthorized = errors.New("unauthorized")

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	// KindFailed covers 5xx responses and transport failures.
	KindFailed ErrorKind = iota
	// KindRejected covers 4xx responses other than 401.
	KindRejected
	// KindUnauthorized covers 401 responses and a missing session token.
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "failed"
	}
}

// APIError is returned by Service and Authenticator implementations when
// the backend call did not succeed.
type APIError struct {
	Kind       ErrorKind
	StatusCode int    // 0 for transport failures
	Detail     string // server-provided message, may be empty
	Err        error  // underlying cause, may be nil
}

func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnauthorized) true for unauthorized API errors.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Kind == KindUnauthorized
}

// IsUnauthorized reports whether err means the session must be re-established.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Message returns the text to show the user for a failed call: the
// server's own message for rejected requests, fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind == KindRejected && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
