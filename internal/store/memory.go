// ABOUTME: In-memory Provider implementation for testing
// ABOUTME: Allows tests and embedders to run without SQLite

package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryProvider is a map-backed Provider. It follows the same lifecycle as
// the SQLite provider: operations against a store that was never initialized
// (or was dropped) fail the way a missing table would.
type MemoryProvider struct {
	name string

	mu     sync.RWMutex
	exists bool
	items  map[string]Storable
}

// NewMemoryProvider creates an empty, uninitialized in-memory store.
func NewMemoryProvider(name string) *MemoryProvider {
	return &MemoryProvider{name: name}
}

func (m *MemoryProvider) checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrBlankKey
	}
	if strings.TrimSpace(m.name) == "" {
		return ErrNoStoreName
	}
	return nil
}

// errMissing mirrors the engine error a dropped table produces.
func (m *MemoryProvider) errMissing() error {
	return fmt.Errorf("no such store: %s", m.name)
}

// Init creates the store if absent. Idempotent: existing records survive.
func (m *MemoryProvider) Init(_ context.Context) error {
	if strings.TrimSpace(m.name) == "" {
		return ErrNoStoreName
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.exists {
		return nil
	}
	m.exists = true
	m.items = make(map[string]Storable)
	return nil
}

// StoreExists reports whether Init has created the store.
func (m *MemoryProvider) StoreExists(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exists, nil
}

// AddOrUpdate inserts or overwrites the record for item.Key.
func (m *MemoryProvider) AddOrUpdate(_ context.Context, item *Storable) error {
	if err := m.checkKey(item.Key); err != nil {
		return err
	}
	if !item.Longevity.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLongevity, item.Longevity.String())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return m.errMissing()
	}
	m.items[item.Key] = *item
	return nil
}

// Get returns the record for key, or (nil, nil) when absent.
func (m *MemoryProvider) Get(_ context.Context, key string) (*Storable, error) {
	if err := m.checkKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.exists {
		return nil, m.errMissing()
	}
	item, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// GetAll returns every record, in no guaranteed order.
func (m *MemoryProvider) GetAll(_ context.Context) ([]*Storable, error) {
	if strings.TrimSpace(m.name) == "" {
		return nil, ErrNoStoreName
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.exists {
		return nil, m.errMissing()
	}

	var items []*Storable
	for _, item := range m.items {
		it := item
		items = append(items, &it)
	}
	return items, nil
}

// Delete removes the record for key. Absent keys are a no-op.
func (m *MemoryProvider) Delete(_ context.Context, key string) error {
	if err := m.checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return m.errMissing()
	}
	delete(m.items, key)
	return nil
}

// DeleteStore discards all records and marks the store absent.
func (m *MemoryProvider) DeleteStore(_ context.Context) error {
	if strings.TrimSpace(m.name) == "" {
		return ErrNoStoreName
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists = false
	m.items = nil
	return nil
}

// Ensure MemoryProvider implements Provider.
var _ Provider = (*MemoryProvider)(nil)
