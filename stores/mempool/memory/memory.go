// Package memory is a mempool source held in process.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
)

type Memory struct {
	mu      sync.RWMutex
	entries []*model.MempoolEntry
}

func New() *Memory {
	return &Memory{}
}

// Add appends a transaction. Entries are visited in the order they were added.
func (m *Memory) Add(name string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, &model.MempoolEntry{Name: name, Raw: raw})
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

func (m *Memory) ForEach(ctx context.Context, fn func(entry *model.MempoolEntry) error) error {
	m.mu.RLock()
	entries := append([]*model.MempoolEntry(nil), m.entries...)
	m.mu.RUnlock()

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return errors.NewContextCanceledError("[Memory] reading mempool canceled", err)
		}

		if err := fn(entry); err != nil {
			return err
		}
	}

	return nil
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	return http.StatusOK, fmt.Sprintf("Memory Mempool: %d transactions", m.Len()), nil
}

func (m *Memory) Close(_ context.Context) error {
	return nil
}
