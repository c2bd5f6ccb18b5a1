// Package repository persists organization snapshots.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/talentsim/internal/domain/model"
)

// Store provides save/load access to the single persisted snapshot.
type Store interface {
	// Load returns the stored snapshot, or ErrNotFound when nothing is saved.
	Load(ctx context.Context) (model.Snapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, s model.Snapshot) error
}

// Encode serialises a snapshot into the persisted JSON layout.
func Encode(s model.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a persisted blob and fills defaults for missing parts.
// Blobs without an employees array are rejected.
func Decode(data []byte) (model.Snapshot, error) {
	var probe struct {
		Employees json.RawMessage `json:"employees"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if len(probe.Employees) == 0 || probe.Employees[0] != '[' {
		return model.Snapshot{}, fmt.Errorf("%w: employees missing", ErrCorruptSnapshot)
	}
	var s model.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	s.Normalize()
	return s, nil
}
