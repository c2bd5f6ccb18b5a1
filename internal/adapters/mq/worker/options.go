package worker

import (
	"time"

	"github.com/okian/talentsim/pkg/logger"
)

// Option applies a configuration option to the Persister.
type Option func(*Persister)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(p *Persister) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(p *Persister) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSaveTimeout bounds a single store write.
func WithSaveTimeout(d time.Duration) Option {
	return func(p *Persister) {
		if d > 0 {
			p.saveTimeout = d
		}
	}
}
