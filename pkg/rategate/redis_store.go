package rategate

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "postcard:usage:"

// RedisStore keeps one counter per sender per UTC day. Counters expire a
// day after their window closes.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

type RedisStoreOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(email string, day time.Time) string {
	return s.prefix + day.UTC().Format(time.DateOnly) + ":" + email
}

// Count reads the counter of the day starting at from; to is implied.
func (s *RedisStore) Count(ctx context.Context, email string, from, _ time.Time) (int, error) {
	n, err := s.client.Get(ctx, s.key(email, from)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *RedisStore) Record(ctx context.Context, email string, at time.Time) error {
	start, end := DayWindow(at)
	key := s.key(email, start)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, end.Add(24*time.Hour))
		return nil
	})
	return err
}
