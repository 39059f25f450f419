package kv

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("kv: key not found")
	ErrConflict = errors.New("kv: revision conflict")
)

type Entry struct {
	Value     []byte
	Revision  int64
	ExpiresAt time.Time
}

// Store is a key-value store with per-key absolute expiry. Expired keys
// behave as absent. Every write replaces the whole value atomically.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	// Put writes unconditionally (last write wins).
	Put(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	// PutIfRevision writes only if the stored revision still equals rev.
	// rev 0 means the key must be absent. Fails with ErrConflict otherwise.
	PutIfRevision(ctx context.Context, key string, value []byte, expiresAt time.Time, rev int64) error
	Ping(ctx context.Context) error
}

type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}
