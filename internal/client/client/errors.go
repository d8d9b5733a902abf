package client

import "errors"

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("username or password is incorrect")
	ErrBadResponse        = errors.New("unexpected response")
)
