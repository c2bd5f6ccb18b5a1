// Package worker drains queued snapshots into a store.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/pkg/logger"
	"github.com/okian/talentsim/pkg/metrics"
)

const defaultSaveTimeout = 5 * time.Second

// Saver writes a snapshot.
type Saver interface {
	Save(ctx context.Context, s model.Snapshot) error
}

// Queue defines how the persister receives snapshots.
type Queue interface {
	Dequeue() <-chan model.Snapshot
	Close() error
}

// Persister saves snapshots one at a time in the order they were queued.
type Persister struct {
	queue       Queue
	saver       Saver
	name        string
	saveTimeout time.Duration

	saved  atomic.Int64
	failed atomic.Int64

	started atomic.Bool
	done    chan struct{}

	logger logger.Logger
}

// NewPersister creates a persister. The global logger must be initialised
// unless WithLogger is given.
func NewPersister(q Queue, saver Saver, opts ...Option) *Persister {
	p := &Persister{
		queue:       q,
		saver:       saver,
		name:        "persister",
		saveTimeout: defaultSaveTimeout,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Start runs the worker loop in a goroutine. Calling it twice is a no-op.
func (p *Persister) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	go p.run(context.WithoutCancel(ctx))
}

func (p *Persister) run(ctx context.Context) {
	defer close(p.done)
	for s := range p.queue.Dequeue() {
		if err := p.persist(ctx, s); err != nil {
			p.logger.Error(ctx, "snapshot save failed", logger.Int("round", s.Round), logger.Error(err))
		}
	}
}

func (p *Persister) persist(ctx context.Context, s model.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, p.saveTimeout)
	defer cancel()

	start := time.Now()
	err := p.saver.Save(ctx, s)
	metrics.RecordSnapshotSave(float64(time.Since(start).Microseconds())/1000, err)
	if err != nil {
		p.failed.Add(1)
		return fmt.Errorf("save round %d: %w", s.Round, err)
	}
	p.saved.Add(1)
	p.logger.Debug(ctx, "snapshot saved", logger.Int("round", s.Round))
	return nil
}

// Stop closes the queue and waits until every pending snapshot has been
// written or ctx expires.
func (p *Persister) Stop(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		return fmt.Errorf("close queue: %w", err)
	}
	if !p.started.Load() {
		return nil
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "persister stop timed out")
		return fmt.Errorf("stop timed out: %w", ctx.Err())
	}
}

// Saved returns the number of snapshots written successfully.
func (p *Persister) Saved() int64 { return p.saved.Load() }

// Failed returns the number of failed writes.
func (p *Persister) Failed() int64 { return p.failed.Load() }
