package client

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUserExists    = errors.New("user already exists")
	ErrTokenRejected = errors.New("session token rejected")
	ErrBadRequest    = errors.New("bad request")
	ErrRateLimited   = errors.New("too many requests")
	ErrServer        = errors.New("server error")
)

// APIError is a non-success reply. Err is the matching sentinel.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized:
		return ErrTokenRejected
	case status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusConflict:
		return ErrUserExists
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusServiceUnavailable:
		return ErrUnavailable
	}
	return ErrServer
}
