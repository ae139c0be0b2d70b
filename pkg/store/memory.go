package store

import (
	"context"
	"sync"
)

// MemoryDriver keeps collections in process memory. Used by tests and throwaway runs.
type MemoryDriver struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryDriver returns an empty MemoryDriver.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{data: make(map[string][]byte)}
}

// Name implements Driver.
func (d *MemoryDriver) Name() string { return "memory" }

// Read implements Driver.
func (d *MemoryDriver) Read(_ context.Context, collection string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	raw, ok := d.data[collection]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), raw...), nil
}

// Write implements Driver.
func (d *MemoryDriver) Write(_ context.Context, collection string, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data[collection] = append([]byte(nil), payload...)
	return nil
}

// Close implements Driver.
func (d *MemoryDriver) Close() error { return nil }
