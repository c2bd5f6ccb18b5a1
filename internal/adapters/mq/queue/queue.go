// Package queue buffers snapshots between the session and the persister.
package queue

import (
	"context"
	"sync"

	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/pkg/metrics"
)

const defaultCapacity = 16

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a snapshot without blocking. It returns ErrQueueFull or
	// ErrQueueClosed when the snapshot was not accepted.
	Enqueue(ctx context.Context, s model.Snapshot) error
	// Dequeue returns the channel snapshots are delivered on. It is closed
	// once the queue is closed and drained.
	Dequeue() <-chan model.Snapshot
	// Len returns the number of pending snapshots.
	Len() int
	// Close stops accepting snapshots.
	Close() error
}

// SnapshotQueue implements Queue on a buffered channel.
type SnapshotQueue struct {
	items    chan model.Snapshot
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewSnapshotQueue creates a queue with configuration options.
func NewSnapshotQueue(opts ...Option) *SnapshotQueue {
	q := &SnapshotQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan model.Snapshot, q.capacity)
	metrics.UpdatePersistQueue(0, q.capacity)
	return q
}

// Enqueue implements Queue. The snapshot is cloned so the caller may keep
// using its value.
func (q *SnapshotQueue) Enqueue(ctx context.Context, s model.Snapshot) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		metrics.RecordPersistDrop()
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordPersistDrop()
		return err
	}
	select {
	case q.items <- s.Clone():
		metrics.UpdatePersistQueue(len(q.items), q.capacity)
		return nil
	default:
		metrics.RecordPersistDrop()
		return ErrQueueFull
	}
}

// Dequeue implements Queue.
func (q *SnapshotQueue) Dequeue() <-chan model.Snapshot {
	return q.items
}

// Len implements Queue.
func (q *SnapshotQueue) Len() int {
	n := len(q.items)
	metrics.UpdatePersistQueue(n, q.capacity)
	return n
}

// Capacity returns the configured capacity.
func (q *SnapshotQueue) Capacity() int { return q.capacity }

// Close implements Queue. Closing twice is a no-op.
func (q *SnapshotQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *SnapshotQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
