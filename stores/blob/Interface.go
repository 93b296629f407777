// Package blob stores mined blocks. A Store accepts exactly one value per key
// and refuses to overwrite it unless asked to.
package blob

import (
	"context"

	"github.com/bsv-blockchain/mineblock/stores/blob/options"
)

// Store is the block sink interface implemented by every backend.
type Store interface {
	// Health reports the store's status as an HTTP status code and a message.
	Health(ctx context.Context, checkLiveness bool) (int, string, error)

	// Exists checks if a blob exists in the store.
	Exists(ctx context.Context, key []byte, opts ...options.FileOption) (bool, error)

	// Get returns the blob stored under key, ERR_BLOB_NOT_FOUND if there is none.
	Get(ctx context.Context, key []byte, opts ...options.FileOption) ([]byte, error)

	// Set stores value under key in a single write. An existing blob is an
	// ERR_BLOB_EXISTS error unless options.WithAllowOverwrite is given.
	Set(ctx context.Context, key []byte, value []byte, opts ...options.FileOption) error

	// Del removes the blob stored under key.
	Del(ctx context.Context, key []byte, opts ...options.FileOption) error

	// Close releases the resources held by the store.
	Close(ctx context.Context) error
}
