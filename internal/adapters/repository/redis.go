package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/talentsim/internal/domain/model"
)

// DefaultSnapshotKey is the key used when none is configured.
const DefaultSnapshotKey = "hr-sim-state-v1"

var _ Store = (*RedisStore)(nil)

// RedisStore keeps the snapshot as one JSON string under a single key.
type RedisStore struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a store on the given client.
func NewRedisStore(client redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, key: DefaultSnapshotKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the key holding the snapshot.
func (s *RedisStore) Key() string { return s.key }

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context) (model.Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return model.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return Decode([]byte(raw))
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, snap model.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
