package history

import (
	"context"
	"errors"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

// RedisStore persists state snapshots in Redis, suitable for multi-server
// deployments with shared navigation state.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key prefix. Default "wayfare:state:".
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithRedisTTL sets an expiration on saved snapshots. Zero keeps them
// forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// NewRedisStore wraps an existing go-redis client. The store does not own
// the client; Close releases it anyway for symmetry with the other
// backends.
func NewRedisStore(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "wayfare:state:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Save(ctx context.Context, key string, state *router.State) error {
	data, err := Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(key), data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, key string) (*router.State, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return Unmarshal(data)
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
