package service

import (
	"io"

	"github.com/okian/talentsim/internal/adapters/repository"
	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/internal/domain/scoring"
	"github.com/okian/talentsim/internal/domain/turnover"
	"github.com/okian/talentsim/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets where snapshots are persisted.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithMode sets the mode used when a new simulation is seeded.
func WithMode(mode model.Mode) Option {
	return func(s *Service) {
		if mode.Valid() {
			s.mode = mode
		}
	}
}

// WithMaxRounds sets the number of rounds before the simulation is finished.
func WithMaxRounds(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRounds = n
		}
	}
}

// WithTrainingCap sets the training slots per round.
func WithTrainingCap(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.trainingCap = n
		}
	}
}

// WithPersistQueueSize bounds the async persistence queue.
func WithPersistQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithScorer sets the scorer used by the round engine.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithTurnoverPolicy sets the turnover policy used by the round engine.
func WithTurnoverPolicy(p turnover.Policy) Option {
	return func(s *Service) {
		s.policy = &p
	}
}

// WithCandidatePool replaces the bundled applicant pool.
func WithCandidatePool(pool []model.Applicant) Option {
	return func(s *Service) {
		s.pool = append([]model.Applicant{}, pool...)
	}
}

// WithIDGenerator sets how ids for hires and vacancy placeholders are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// withCloser registers a resource released on Stop.
func withCloser(c io.Closer) Option {
	return func(s *Service) {
		if c != nil {
			s.closers = append(s.closers, c)
		}
	}
}
