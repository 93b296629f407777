// Package mempool provides the pending transactions a block is built from.
package mempool

import (
	"context"

	"github.com/bsv-blockchain/mineblock/model"
)

// Source enumerates pending transactions in a stable order.
type Source interface {
	// ForEach calls fn for every entry, in source order, until fn returns an
	// error or the context is done.
	ForEach(ctx context.Context, fn func(entry *model.MempoolEntry) error) error

	// Health reports the source's status as an HTTP status code and a message.
	Health(ctx context.Context, checkLiveness bool) (int, string, error)

	Close(ctx context.Context) error
}
