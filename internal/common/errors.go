// Package common defines shared constants, sentinel errors and small helpers
// used across the server, the transports and the tooling. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Login errors. Unknown user and wrong password both map to
	// ErrInvalidCredentials.
	ErrInvalidCredentials  = errors.New("username or password is incorrect")
	ErrMalformedStoredHash = errors.New("malformed stored hash")
	ErrUserNotFound        = errors.New("user not found")

	// Access token errors.
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")

	// Authorization errors.
	ErrUnknownPolicy = errors.New("unknown policy")
	ErrForbidden     = errors.New("forbidden")
)
