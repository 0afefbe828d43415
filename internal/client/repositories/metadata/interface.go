// Package metadata is the client's local key/value store. The CLI keeps its
// session (token, email, name) here between runs.
package metadata

import (
	"context"
)

// Repository reads and writes string-keyed blobs. Get reports
// common.ErrorNotFound for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
