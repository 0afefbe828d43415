// Package common defines shared constants and sentinel errors used across
// client and server layers of taskdesk. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorStoreUnavailable = errors.New("store unavailable")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorUserExists       = errors.New("user already exists")
	ErrorValidation       = errors.New("validation error")

	// Access gate errors.
	ErrorMissingToken = errors.New("missing token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)
