// ABOUTME: Errors and user-facing messages of the authentication flow
// ABOUTME: Distinguishes local validation, rejection and forced password change

package session

import "errors"

// User-facing messages
const (
	MsgLoginFailed          = "Login failed"
	MsgPasswordChangeFailed = "Password change failed"
	MsgPasswordMismatch     = "New passwords do not match"
	MsgPasswordTooShort     = "New password must be at least 6 characters long"
	MsgPasswordChanged      = "Password changed successfully. Please login with your new password."
)

// MinPasswordLength is the shortest new password accepted locally
const MinPasswordLength = 6

// ErrPasswordChangeRequired is returned by Login when the account must set a
// new password before a session can be created.
var ErrPasswordChangeRequired = errors.New("PASSWORD_CHANGE_REQUIRED")

// ErrStaleResponse is returned when a response arrives for a login or
// password change that has since been superseded by another submission or
// by logout. The response had no effect.
var ErrStaleResponse = errors.New("response discarded: session changed while request was in flight")

// ErrNotLoggedIn is returned by Guard.Require when no session exists
var ErrNotLoggedIn = errors.New("not logged in: run campus-admin login")

// ValidationError is a local check that failed before any network call
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// LoginError is a rejected login or password change
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
