package session

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultTTL = 14 * 24 * time.Hour

// RedisStore keeps sessions as JSON under sess:<id> with a sliding TTL.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *goredis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{rdb: rdb, prefix: "sess:", ttl: ttl}
}

func (r *RedisStore) key(id string) string { return r.prefix + id }

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if s == nil || strings.TrimSpace(s.ID) == "" {
		return errors.New("session: missing id")
	}
	if r.rdb == nil {
		return errors.New("redis session store not configured")
	}
	b, err := encode(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(s.ID), b, r.ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	if r.rdb == nil {
		return nil, errors.New("redis session store not configured")
	}
	b, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(b)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if r.rdb == nil {
		return errors.New("redis session store not configured")
	}
	return r.rdb.Del(ctx, r.key(id)).Err()
}
