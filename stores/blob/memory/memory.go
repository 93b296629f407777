// Package memory is an in process blob store, used by tests and dry runs.
package memory

import (
	"bytes"
	"context"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/stores/blob/options"
)

type Memory struct {
	mu       sync.RWMutex
	blobs    map[string][]byte
	options  *options.Options
	Counters map[string]int
}

func New(opts ...options.StoreOption) *Memory {
	return &Memory{
		blobs:    make(map[string][]byte),
		options:  options.NewStoreOptions(opts...),
		Counters: make(map[string]int),
	}
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	return http.StatusOK, "Memory Store", nil
}

func (m *Memory) Close(_ context.Context) error {
	return nil
}

func (m *Memory) Exists(_ context.Context, key []byte, opts ...options.FileOption) (bool, error) {
	storeKey, err := options.MergeOptions(m.options, opts).StoreKey(key)
	if err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.blobs[storeKey]

	return ok, nil
}

func (m *Memory) Get(_ context.Context, key []byte, opts ...options.FileOption) ([]byte, error) {
	storeKey, err := options.MergeOptions(m.options, opts).StoreKey(key)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Counters["get"]++

	value, ok := m.blobs[storeKey]
	if !ok {
		return nil, errors.NewBlobNotFoundError("[Memory][Get] [%s] not found", storeKey)
	}

	return bytes.Clone(value), nil
}

func (m *Memory) Set(_ context.Context, key []byte, value []byte, opts ...options.FileOption) error {
	merged := options.MergeOptions(m.options, opts)

	storeKey, err := merged.StoreKey(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Counters["set"]++

	if _, ok := m.blobs[storeKey]; ok && !merged.AllowOverwrite {
		return errors.NewBlobAlreadyExistsError("[Memory][Set] [%s] already exists in store", storeKey)
	}

	m.blobs[storeKey] = bytes.Clone(value)

	return nil
}

func (m *Memory) Del(_ context.Context, key []byte, opts ...options.FileOption) error {
	storeKey, err := options.MergeOptions(m.options, opts).StoreKey(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[storeKey]; !ok {
		return errors.NewBlobNotFoundError("[Memory][Del] [%s] not found", storeKey)
	}

	delete(m.blobs, storeKey)

	return nil
}

// Keys returns the stored names, for assertions in tests.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		keys = append(keys, k)
	}

	return keys
}
