package app

import (
	"context"
	"time"
)

// StateStore persists opaque filter-state documents under a session scoped key.
type StateStore interface {
	// Load returns found=false when nothing is stored under key.
	Load(ctx context.Context, key string) (data []byte, found bool, err error)
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
