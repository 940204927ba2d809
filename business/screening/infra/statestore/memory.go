// Package statestore provides StateStore implementations for session filter state.
package statestore

import (
	"context"
	"time"

	"github.com/fd1az/seller-scout/business/screening/app"
	"github.com/fd1az/seller-scout/internal/cache"
)

var _ app.StateStore = (*MemoryStore)(nil)

// MemoryStore keeps state in process. State is lost on restart.
type MemoryStore struct {
	entries *cache.Cache[string, []byte]
}

// NewMemoryStore creates a store whose expired entries are swept every cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{entries: cache.New[string, []byte](cleanupInterval)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok := s.entries.Get(ctx, key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	s.entries.Set(ctx, key, append([]byte(nil), data...), ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.entries.Delete(ctx, key)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close stops the sweeper.
func (s *MemoryStore) Close() error {
	s.entries.Close()
	return nil
}
