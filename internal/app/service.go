// Package service runs one talent simulation: it owns the current snapshot,
// applies operator actions to it and persists every change asynchronously.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/talentsim/internal/adapters/mq/queue"
	"github.com/okian/talentsim/internal/adapters/mq/worker"
	"github.com/okian/talentsim/internal/adapters/repository"
	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/internal/domain/round"
	"github.com/okian/talentsim/internal/domain/scoring"
	"github.com/okian/talentsim/internal/domain/turnover"
	"github.com/okian/talentsim/internal/domain/vacancy"
	"github.com/okian/talentsim/internal/roster"
	"github.com/okian/talentsim/pkg/logger"
	"github.com/okian/talentsim/pkg/metrics"
)

const stopTimeout = 10 * time.Second

// Service holds the live simulation.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	engine    *round.Engine
	queue     *queue.SnapshotQueue
	persister *worker.Persister
	closers   []io.Closer

	// Configuration
	mode        model.Mode
	maxRounds   int
	trainingCap int
	queueSize   int
	scorer      scoring.Scorer
	policy      *turnover.Policy
	pool        []model.Applicant
	newID       func() string

	// State
	state   model.Snapshot
	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration. Nothing is loaded
// until Start.
func New(opts ...Option) *Service {
	s := &Service{
		mode:        model.ModeBasic,
		maxRounds:   5,
		trainingCap: 4,
		queueSize:   16,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the engine, restores the last saved snapshot (or seeds a new
// simulation) and starts the persister.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting simulation service...")

	if s.pool == nil {
		pool, err := roster.Candidates()
		if err != nil {
			return fmt.Errorf("load candidates: %w", err)
		}
		s.pool = pool
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "no store configured, using memory store")
	}

	engineOpts := []round.Option{round.WithCandidatePool(s.pool)}
	if s.scorer != nil {
		engineOpts = append(engineOpts, round.WithScorer(s.scorer))
	}
	if s.policy != nil {
		engineOpts = append(engineOpts, round.WithTurnoverPolicy(*s.policy))
	}
	s.engine = round.NewEngine(engineOpts...)

	state, seeded, err := s.restore(ctx)
	if err != nil {
		return err
	}
	s.state = state

	s.queue = queue.NewSnapshotQueue(queue.WithCapacity(s.queueSize))
	s.persister = worker.NewPersister(s.queue, s.store, worker.WithLogger(s.logger.Named("persister")))
	s.persister.Start(ctx)
	s.started = true

	if seeded {
		s.persist(ctx)
	}
	s.observe()

	s.logger.Info(ctx, "simulation service started",
		logger.Int("round", s.state.Round),
		logger.String("mode", string(s.state.Mode)),
		logger.Bool("seeded", seeded),
		logger.Int("maxRounds", s.maxRounds),
		logger.Int("trainingCap", s.trainingCap),
	)
	return nil
}

// restore loads the saved snapshot. A missing or unreadable one is replaced
// by a fresh simulation.
func (s *Service) restore(ctx context.Context) (model.Snapshot, bool, error) {
	state, err := s.store.Load(ctx)
	switch {
	case err == nil:
		metrics.RecordSnapshotLoad(metrics.LoadHit)
		return state, false, nil
	case errors.Is(err, repository.ErrNotFound):
		metrics.RecordSnapshotLoad(metrics.LoadMiss)
	case errors.Is(err, repository.ErrCorruptSnapshot):
		metrics.RecordSnapshotLoad(metrics.LoadFailed)
		s.logger.Warn(ctx, "saved snapshot unreadable, starting over", logger.Error(err))
	default:
		metrics.RecordSnapshotLoad(metrics.LoadFailed)
		return model.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	state, err = s.seed(s.mode)
	if err != nil {
		return model.Snapshot{}, false, err
	}
	return state, true, nil
}

func (s *Service) seed(mode model.Mode) (model.Snapshot, error) {
	state, err := roster.NewSnapshot(mode)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("seed roster: %w", err)
	}
	state.Applicants = vacancy.EligibleApplicants(s.pool, vacancy.OpenPositions(state.Employees), nil)
	return state, nil
}

// Stop drains pending saves and releases resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if !s.started {
		// Start may have failed after resources were opened.
		s.release(ctx)
		return
	}

	s.logger.Info(ctx, "stopping simulation service...")
	if err := s.persister.Stop(ctx); err != nil {
		s.logger.Error(ctx, "persister stop failed", logger.Error(err))
	}
	s.release(ctx)
	s.started = false
	s.logger.Info(ctx, "simulation service stopped",
		logger.Any("saved", s.persister.Saved()),
		logger.Any("failed", s.persister.Failed()),
	)
}

func (s *Service) release(ctx context.Context) {
	for _, c := range s.closers {
		if err := c.Close(); err != nil && s.logger != nil {
			s.logger.Warn(ctx, "close failed", logger.Error(err))
		}
	}
	s.closers = nil
}

// persist queues the current state. Must be called with mu held.
func (s *Service) persist(ctx context.Context) {
	if err := s.queue.Enqueue(ctx, s.state); err != nil {
		s.logger.Warn(ctx, "snapshot not queued", logger.Int("round", s.state.Round), logger.Error(err))
	}
}

// observe publishes organization gauges. Must be called with mu held.
func (s *Service) observe() {
	metrics.UpdateOrganization(
		s.state.Round,
		s.engine.Score(s.state),
		len(s.state.Active()),
		len(s.engine.OpenPositions(s.state)),
		len(s.state.Applicants),
	)
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() (model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.Snapshot{}, ErrNotStarted
	}
	return s.state.Clone(), nil
}

// Score returns the live score of the current state.
func (s *Service) Score() (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return 0, ErrNotStarted
	}
	return s.engine.Score(s.state), nil
}

// OpenPositions returns the titles currently open.
func (s *Service) OpenPositions() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.engine.OpenPositions(s.state), nil
}

// Applicants returns the external candidates for the open titles.
func (s *Service) Applicants() ([]model.Applicant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return append([]model.Applicant{}, s.state.Applicants...), nil
}

// HigherOpenTitles lists the open titles the employee could be promoted to.
func (s *Service) HigherOpenTitles(employeeID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return vacancy.HigherOpenTitles(s.state.Employees, employeeID), nil
}

// Phase reports whether rounds can still be committed.
func (s *Service) Phase() (round.Phase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return "", ErrNotStarted
	}
	return round.PhaseOf(s.state, s.maxRounds), nil
}

// Preflight reports what would block or be wasted by committing now.
func (s *Service) Preflight() (round.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return round.Report{}, ErrNotStarted
	}
	return round.Preflight(s.state, s.trainingCap), nil
}

// GetStats returns service statistics.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"maxRounds":   s.maxRounds,
		"trainingCap": s.trainingCap,
	}
	if !s.started {
		return stats
	}
	stats["round"] = s.state.Round
	stats["mode"] = string(s.state.Mode)
	stats["phase"] = string(round.PhaseOf(s.state, s.maxRounds))
	stats["employees"] = len(s.state.Employees)
	stats["active"] = len(s.state.Active())
	stats["trainingsUsed"] = s.state.TrainingsUsed()
	stats["pendingSaves"] = s.queue.Len()
	stats["saved"] = s.persister.Saved()
	stats["saveFailures"] = s.persister.Failed()
	return stats
}
