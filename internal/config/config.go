// Package config defines simulation configuration and its loading.
package config

import (
	"fmt"
	"strings"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Mode is the operating mode of new simulations: basic or advanced.
	Mode string `koanf:"mode"`

	// MaxRounds is the number of rounds after which the simulation is finished.
	MaxRounds int `koanf:"max_rounds"`

	// TrainingCap is the number of training slots per round.
	TrainingCap int `koanf:"training_cap"`

	// StoreBackend selects where snapshots are persisted.
	StoreBackend string `koanf:"store_backend"`

	// SnapshotPath is the file store location.
	SnapshotPath string `koanf:"snapshot_path"`

	// RedisAddr and SnapshotKey configure the redis store.
	RedisAddr   string `koanf:"redis_addr"`
	SnapshotKey string `koanf:"snapshot_key"`

	// PersistQueueSize bounds the async persistence queue.
	PersistQueueSize int `koanf:"persist_queue_size"`

	// LevelWeights maps level names to their scoring weights.
	LevelWeights map[string]float64 `koanf:"level_weights"`

	// DefaultLevelWeight is used for a level missing from LevelWeights.
	DefaultLevelWeight float64 `koanf:"default_level_weight"`

	// Turnover policy.
	LowPerformanceThreshold float64 `koanf:"low_performance_threshold"`
	StrikeLimit             int     `koanf:"strike_limit"`
	RetireFromRound         int     `koanf:"retire_from_round"`
	QuitFromRound           int     `koanf:"quit_from_round"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Mode:             "basic",
		MaxRounds:        5,
		TrainingCap:      4,
		StoreBackend:     BackendFile,
		SnapshotPath:     "hr-sim-state-v1.json",
		RedisAddr:        "localhost:6379",
		SnapshotKey:      "hr-sim-state-v1",
		PersistQueueSize: 16,
		LevelWeights: map[string]float64{
			"CEO":        5.0,
			"VP":         4.0,
			"Director":   3.0,
			"Manager":    2.0,
			"Specialist": 1.0,
		},
		DefaultLevelWeight:      1.0,
		LowPerformanceThreshold: 2.5,
		StrikeLimit:             2,
		RetireFromRound:         1,
		QuitFromRound:           1,
	}
}

// Validate checks the configuration and wraps failures in ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, "log_level must be debug, info, warn or error")
	}
	switch strings.ToLower(c.Mode) {
	case "basic", "advanced":
	default:
		problems = append(problems, "mode must be basic or advanced")
	}
	if c.MaxRounds < 1 {
		problems = append(problems, "max_rounds must be at least 1")
	}
	if c.TrainingCap < 0 {
		problems = append(problems, "training_cap must not be negative")
	}
	switch c.StoreBackend {
	case BackendMemory:
	case BackendFile:
		if c.SnapshotPath == "" {
			problems = append(problems, "snapshot_path must not be empty")
		}
	case BackendRedis:
		if c.RedisAddr == "" || c.SnapshotKey == "" {
			problems = append(problems, "redis_addr and snapshot_key must not be empty")
		}
	default:
		problems = append(problems, "store_backend must be file, memory or redis")
	}
	if c.PersistQueueSize < 1 {
		problems = append(problems, "persist_queue_size must be at least 1")
	}
	if c.DefaultLevelWeight <= 0 {
		problems = append(problems, "default_level_weight must be positive")
	}
	if c.LowPerformanceThreshold < 1 || c.LowPerformanceThreshold > 5 {
		problems = append(problems, "low_performance_threshold must be within 1..5")
	}
	if c.StrikeLimit < 1 {
		problems = append(problems, "strike_limit must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
