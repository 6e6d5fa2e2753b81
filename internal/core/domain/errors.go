package domain

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRehydrated  = errors.New("session already rehydrated")
	ErrNoToken            = errors.New("no session token")
	ErrRecordNotFound     = errors.New("session record not found")
)

// Form validation errors. Their text is shown to the user verbatim.
var (
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters long")
)

// ErrInvalidResponse is returned when the gateway answers 2xx but the body
// lacks a token or a user.
var ErrInvalidResponse = errors.New("Invalid response from server")

// ErrNotFound is returned by feed repositories.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the session's role may not use a route.
var ErrForbidden = errors.New("access forbidden")

// Account errors raised by the development gateway.
var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Messages shown when the gateway gives nothing better.
const (
	MsgNetworkError  = "Network error. Please try again."
	MsgLoginFailed   = "Login failed. Please check your credentials."
	MsgSignupFailed  = "Signup failed. Please try again."
	MsgInternalError = "Something went wrong. Please try again."
)

// ValidationError reports a client-local form problem. No network call is made
// when one is returned.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError wraps msg for field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Err: errors.New(msg)}
}

// GatewayError is a transport or server failure talking to the auth gateway.
// Status is zero for transport failures. Message is the server-provided text,
// or empty when the server gave none.
type GatewayError struct {
	Status  int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Status != 0:
		return fmt.Sprintf("auth gateway returned status %d", e.Status)
	case e.Err != nil:
		return "auth gateway: " + e.Err.Error()
	default:
		return MsgNetworkError
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Transport reports whether the request never got an HTTP answer.
func (e *GatewayError) Transport() bool { return e.Status == 0 }
