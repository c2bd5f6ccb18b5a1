package repository

import (
	"context"
	"sync"

	"github.com/okian/talentsim/internal/domain/model"
)

// MemoryStore keeps the snapshot in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	data  []byte
	saves int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	m.mu.RLock()
	data := m.data
	m.mu.RUnlock()
	if data == nil {
		return model.Snapshot{}, ErrNotFound
	}
	return Decode(data)
}

// Save implements Store. The snapshot is encoded so later changes to the
// caller's value never leak into the store.
func (m *MemoryStore) Save(ctx context.Context, s model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.saves++
	m.mu.Unlock()
	return nil
}

// Saves returns how many snapshots have been written.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
