package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/kv"
)

var (
	_ kv.Store   = (*KVRepo)(nil)
	_ kv.Sweeper = (*KVRepo)(nil)
)

type KVRepo struct {
	db  *DB
	now func() time.Time
}

func NewKVRepo(db *DB, now func() time.Time) *KVRepo {
	if now == nil {
		now = time.Now
	}
	return &KVRepo{db: db, now: now}
}

const (
	qKVGet = `SELECT value, revision, expires_at FROM kv WHERE key = ? AND expires_at > ?;`

	qKVPut = `
INSERT INTO kv (key, value, revision, expires_at, updated_at)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT (key) DO UPDATE
SET value      = excluded.value,
    revision   = kv.revision + 1,
    expires_at = excluded.expires_at,
    updated_at = excluded.updated_at;`

	qKVCreate = `
INSERT INTO kv (key, value, revision, expires_at, updated_at)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT (key) DO UPDATE
SET value      = excluded.value,
    revision   = kv.revision + 1,
    expires_at = excluded.expires_at,
    updated_at = excluded.updated_at
WHERE kv.expires_at <= excluded.updated_at;`

	qKVSwap = `
UPDATE kv
SET value = ?, revision = revision + 1, expires_at = ?, updated_at = ?
WHERE key = ? AND revision = ? AND expires_at > ?;`

	qKVSweep = `DELETE FROM kv WHERE expires_at <= ?;`
)

func (r *KVRepo) Get(ctx context.Context, key string) (kv.Entry, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var (
		e   kv.Entry
		exp int64
	)
	err := r.db.SQL.QueryRowContext(ctx, qKVGet, key, r.now().UnixMilli()).Scan(&e.Value, &e.Revision, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return kv.Entry{}, kv.ErrNotFound
	}
	if err != nil {
		return kv.Entry{}, fmt.Errorf("kv get: %w", err)
	}
	e.ExpiresAt = time.UnixMilli(exp)
	return e, nil
}

func (r *KVRepo) Put(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.SQL.ExecContext(ctx, qKVPut, key, value, expiresAt.UnixMilli(), r.now().UnixMilli()); err != nil {
		return fmt.Errorf("kv put: %w", err)
	}
	return nil
}

func (r *KVRepo) PutIfRevision(ctx context.Context, key string, value []byte, expiresAt time.Time, rev int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	now := r.now().UnixMilli()
	var (
		res sql.Result
		err error
	)
	if rev == 0 {
		res, err = r.db.SQL.ExecContext(ctx, qKVCreate, key, value, expiresAt.UnixMilli(), now)
	} else {
		res, err = r.db.SQL.ExecContext(ctx, qKVSwap, value, expiresAt.UnixMilli(), now, key, rev, now)
	}
	if err != nil {
		return fmt.Errorf("kv conditional put: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("kv rows affected: %w", err)
	}
	if n == 0 {
		return kv.ErrConflict
	}
	return nil
}

func (r *KVRepo) Ping(ctx context.Context) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()
	return r.db.SQL.PingContext(ctx)
}

func (r *KVRepo) Sweep(ctx context.Context) (int64, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	res, err := r.db.SQL.ExecContext(ctx, qKVSweep, r.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("kv sweep: %w", err)
	}
	return res.RowsAffected()
}
