package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/kv"
	"github.com/jackc/pgx/v5"
)

var (
	_ kv.Store   = (*KVRepo)(nil)
	_ kv.Sweeper = (*KVRepo)(nil)
)

type KVRepo struct{ db *DB }

func NewKVRepo(db *DB) *KVRepo { return &KVRepo{db: db} }

const (
	qKVGet = `
SELECT value, revision, expires_at
FROM kv
WHERE key = $1 AND expires_at > now();`

	qKVPut = `
INSERT INTO kv (key, value, revision, expires_at, updated_at)
VALUES ($1, $2, 1, $3, now())
ON CONFLICT (key) DO UPDATE
SET value      = EXCLUDED.value,
    revision   = kv.revision + 1,
    expires_at = EXCLUDED.expires_at,
    updated_at = now();`

	// An expired row counts as absent, so it may be replaced by a create.
	qKVCreate = `
INSERT INTO kv (key, value, revision, expires_at, updated_at)
VALUES ($1, $2, 1, $3, now())
ON CONFLICT (key) DO UPDATE
SET value      = EXCLUDED.value,
    revision   = kv.revision + 1,
    expires_at = EXCLUDED.expires_at,
    updated_at = now()
WHERE kv.expires_at <= now();`

	qKVSwap = `
UPDATE kv
SET value      = $2,
    revision   = revision + 1,
    expires_at = $3,
    updated_at = now()
WHERE key = $1 AND revision = $4 AND expires_at > now();`

	qKVSweep = `DELETE FROM kv WHERE expires_at <= now();`
)

func (r *KVRepo) Get(ctx context.Context, key string) (kv.Entry, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var e kv.Entry
	err := r.db.execQueryer(ctx).QueryRow(ctx, qKVGet, key).Scan(&e.Value, &e.Revision, &e.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("kv get: %w", err)
	}
	return e, nil
}

func (r *KVRepo) Put(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.execQueryer(ctx).Exec(ctx, qKVPut, key, value, expiresAt.UTC()); err != nil {
		return fmt.Errorf("kv put: %w", err)
	}
	return nil
}

func (r *KVRepo) PutIfRevision(ctx context.Context, key string, value []byte, expiresAt time.Time, rev int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	var err error
	var affected int64
	if rev == 0 {
		tag, e := eq.Exec(ctx, qKVCreate, key, value, expiresAt.UTC())
		err, affected = e, tag.RowsAffected()
	} else {
		tag, e := eq.Exec(ctx, qKVSwap, key, value, expiresAt.UTC(), rev)
		err, affected = e, tag.RowsAffected()
	}
	if err != nil {
		if isUniqueViolation(err) {
			return kv.ErrConflict
		}
		return fmt.Errorf("kv conditional put: %w", err)
	}
	if affected == 0 {
		return kv.ErrConflict
	}
	return nil
}

func (r *KVRepo) Ping(ctx context.Context) error { return r.db.Ping(ctx) }

func (r *KVRepo) Sweep(ctx context.Context) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, qKVSweep)
	if err != nil {
		return 0, fmt.Errorf("kv sweep: %w", err)
	}
	return tag.RowsAffected(), nil
}
