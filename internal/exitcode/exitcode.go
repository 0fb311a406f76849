// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"taskboard/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, invalid input).
	UserError = 1

	// AuthError indicates a missing or rejected session.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// For maps an API error to an exit code. Rejected requests are the
// user's to fix; everything else that is not auth is a backend error.
func For(err error) int {
	if err == nil {
		return Success
	}
	if service.IsUnauthorized(err) {
		return AuthError
	}
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Kind == service.KindRejected {
		return UserError
	}
	return BackendError
}
