// Package metadata persists small key/value pairs on the client, such as the
// session token and the logged-in username.
package metadata

import (
	"context"
)

// Repository is a key/value store. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
