// Package errors provides the error types shared across the ResolveIT
// client. Each type maps to one branch of the error taxonomy: session
// expiry, login rejection, backend domain failures, missing resources, and
// transport failures. Nothing here retries; recovery is always a caller
// decision.
package errors

import (
	stderrors "errors"
	"fmt"
)

// SessionExpiredError indicates that the stored token is no longer usable
// and the client must re-authenticate.
//
// Recovery strategy: re-login with credentials, then retry the call once.
type SessionExpiredError struct {
	Message string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %s", e.Message)
}

// NewSessionExpiredError creates a new session expired error with context
func NewSessionExpiredError(msg string) *SessionExpiredError {
	return &SessionExpiredError{Message: msg}
}

// LoginFailedError indicates that a login attempt was rejected or could not
// complete.
type LoginFailedError struct {
	Message string
	Err     error
}

func (e *LoginFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("login failed: %s", e.Message)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *LoginFailedError) Unwrap() error {
	return e.Err
}

// NewLoginFailedError creates a new login failed error with context
func NewLoginFailedError(msg string, err error) *LoginFailedError {
	return &LoginFailedError{Message: msg, Err: err}
}

// APIError carries a domain failure the backend surfaced with
// success=false. The message is shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// NewAPIError creates a backend domain error
func NewAPIError(statusCode int, msg string) *APIError {
	return &APIError{StatusCode: statusCode, Message: msg}
}

// NotFoundError indicates the requested resource does not exist (404).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFoundError creates a not found error for the named resource
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// AccessDeniedError indicates the backend refused the action for the
// current role (403).
type AccessDeniedError struct {
	RequiredRole string
	Message      string
}

func (e *AccessDeniedError) Error() string {
	if e.RequiredRole != "" {
		return fmt.Sprintf("access denied: %s role required", e.RequiredRole)
	}
	return fmt.Sprintf("access denied: %s", e.Message)
}

// NewAccessDeniedError creates an access denied error
func NewAccessDeniedError(requiredRole, msg string) *AccessDeniedError {
	return &AccessDeniedError{RequiredRole: requiredRole, Message: msg}
}

// FetchError wraps transport-level failures: network errors, unreadable
// bodies, malformed JSON. These show as per-section banners, never abort
// unrelated sections.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("fetch error: %s", e.Message)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new fetch error
func NewFetchError(msg string, err error) *FetchError {
	return &FetchError{Message: msg, Err: err}
}

// IsLoginFailed checks if the error is a login failure error
func IsLoginFailed(err error) bool {
	var target *LoginFailedError
	return stderrors.As(err, &target)
}

// IsSessionExpired checks if the error is a session expired error
func IsSessionExpired(err error) bool {
	var target *SessionExpiredError
	return stderrors.As(err, &target)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

// IsAccessDenied checks if the error is an access denied error
func IsAccessDenied(err error) bool {
	var target *AccessDeniedError
	return stderrors.As(err, &target)
}
