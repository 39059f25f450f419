package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T, now func() time.Time) *KVRepo {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: t.TempDir() + "/kv.db"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewKVRepo(db, now)
}

func TestKVRepo_PutGet(t *testing.T) {
	ctx := context.Background()
	r := openTest(t, nil)
	exp := time.Now().Add(time.Hour).Truncate(time.Millisecond)

	_, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, r.Put(ctx, "k", []byte("v1"), exp))
	require.NoError(t, r.Put(ctx, "k", []byte("v2"), exp))

	e, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), e.Value)
	assert.Equal(t, int64(2), e.Revision)
	assert.True(t, exp.Equal(e.ExpiresAt))
}

func TestKVRepo_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_000, 0)
	r := openTest(t, func() time.Time { return now })

	require.NoError(t, r.Put(ctx, "k", []byte("v"), now.Add(time.Minute)))
	now = now.Add(2 * time.Minute)

	_, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	n, err := r.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestKVRepo_PutIfRevision(t *testing.T) {
	ctx := context.Background()
	r := openTest(t, nil)
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.PutIfRevision(ctx, "k", []byte("1"), exp, 0))
	assert.ErrorIs(t, r.PutIfRevision(ctx, "k", []byte("x"), exp, 0), kv.ErrConflict)
	require.NoError(t, r.PutIfRevision(ctx, "k", []byte("2"), exp, 1))
	assert.ErrorIs(t, r.PutIfRevision(ctx, "k", []byte("3"), exp, 1), kv.ErrConflict)

	e, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), e.Value)
}
