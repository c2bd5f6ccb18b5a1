package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/talentsim/internal/adapters/repository"
	"github.com/okian/talentsim/internal/config"
	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/internal/domain/scoring"
	"github.com/okian/talentsim/internal/domain/turnover"
	"github.com/okian/talentsim/pkg/logger"
)

// NewFromConfig builds a Service from loaded configuration. Options given
// here are applied after the config-derived ones and win over them.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, closer, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	policy := turnover.DefaultPolicy()
	policy.LowPerformanceThreshold = cfg.LowPerformanceThreshold
	policy.StrikeLimit = cfg.StrikeLimit
	policy.RetireFromRound = cfg.RetireFromRound
	policy.QuitFromRound = cfg.QuitFromRound

	base := []Option{
		WithStore(store),
		WithMode(model.ParseMode(cfg.Mode)),
		WithMaxRounds(cfg.MaxRounds),
		WithTrainingCap(cfg.TrainingCap),
		WithPersistQueueSize(cfg.PersistQueueSize),
		WithScorer(scoring.NewWeightedScorer(
			scoring.WithLevelWeightsFromConfig(cfg.LevelWeights, cfg.DefaultLevelWeight),
		)),
		WithTurnoverPolicy(policy),
	}
	if closer != nil {
		base = append(base, withCloser(closer))
	}
	return New(append(base, opts...)...), nil
}

func newStore(cfg *config.Config) (repository.Store, *redis.Client, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return repository.NewMemoryStore(), nil, nil
	case config.BackendFile:
		return repository.NewFileStore(cfg.SnapshotPath), nil, nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return repository.NewRedisStore(client, repository.WithKey(cfg.SnapshotKey)), client, nil
	}
	return nil, nil, fmt.Errorf("%w: store_backend %q", config.ErrInvalidConfig, cfg.StoreBackend)
}

// Bootstrap loads configuration, initialises the global logger and returns
// a started Service.
func Bootstrap(ctx context.Context, opts ...Option) (*Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("set log level: %w", err)
	}

	svc, err := NewFromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		svc.Stop()
		return nil, err
	}
	return svc, nil
}
