// ABOUTME: Maps errors to exit codes and user-facing messages
// ABOUTME: Shared by every command so failures read the same way

package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/markalston/campus-admin/internal/api"
	"github.com/markalston/campus-admin/internal/resources"
	"github.com/markalston/campus-admin/internal/session"
)

// Exit codes
const (
	exitOK       = 0
	exitRejected = 1
	exitError    = 2
	exitAuth     = 3
)

const sessionExpiredMessage = "session expired, please log in again"

// exitCodeFor classifies err into an exit code
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}

	var sessionValidation *session.ValidationError
	var resourceValidation *resources.ValidationError
	switch {
	case errors.As(err, &sessionValidation), errors.As(err, &resourceValidation):
		return exitRejected
	case errors.Is(err, session.ErrNotLoggedIn), api.IsKind(err, api.KindUnauthorized) && !isLoginRejection(err):
		return exitAuth
	case errors.Is(err, session.ErrPasswordChangeRequired):
		return exitRejected
	case api.IsKind(err, api.KindTransport):
		return exitError
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError {
		return exitError
	}
	var loginErr *session.LoginError
	if errors.As(err, &loginErr) || errors.As(err, &apiErr) {
		return exitRejected
	}
	return exitError
}

// isLoginRejection reports whether err is a failed login rather than an expired session
func isLoginRejection(err error) bool {
	var loginErr *session.LoginError
	return errors.As(err, &loginErr)
}

// reportError prints err the way users should read it and returns its exit code
func reportError(w io.Writer, err error) int {
	code := exitCodeFor(err)
	switch {
	case code == exitAuth && errors.Is(err, session.ErrNotLoggedIn):
		fmt.Fprintf(w, "Error: %v\n", err)
	case code == exitAuth:
		fmt.Fprintf(w, "Error: %s (run campus-admin login)\n", sessionExpiredMessage)
	default:
		fmt.Fprintf(w, "Error: %s\n", userMessage(err))
	}
	return code
}

// userMessage prefers the API's own message over wrapped context
func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Kind == api.KindStatus {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
