// Package client contains the CLI's side of the taskdesk API.
//
// Client is the transport contract (Register, Login, Products, Ping) and
// HTTPClient implements it over JSON/HTTP. Idempotent GETs are retried with
// exponential backoff while the server is unreachable. InitDatabase opens
// the local SQLite file that holds the session and applies its migrations.
//
// Failures are reported as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrUserExists, ErrTokenRejected,
// ErrBadRequest, ErrRateLimited and ErrServer. Server-provided messages are
// carried by *APIError.
package client
