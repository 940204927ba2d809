package statestore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fd1az/seller-scout/business/screening/app"
	"github.com/fd1az/seller-scout/internal/apperror"
)

var _ app.StateStore = (*RedisStore)(nil)

// RedisOptions configures a standalone Redis connection.
type RedisOptions struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisStore keeps state in Redis so sessions survive restarts and are shared
// between processes.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisStore dials Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	s := NewRedisStoreFromClient(rdb, opts.KeyPrefix)
	if err := s.Ping(ctx); err != nil {
		rdb.Close()
		return nil, apperror.External(apperror.CodeFilterStateStore, "redis "+opts.Addr, err)
	}
	return s, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb redis.UniversalClient, keyPrefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: keyPrefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save stores data; ttl of zero keeps the key without expiry.
func (s *RedisStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(key), data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
