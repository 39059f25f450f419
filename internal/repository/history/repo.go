package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/kv"
	"github.com/NordCoder/uptimekv/internal/domain/uptime"
)

const DefaultKeyPrefix = "uptime:"

type Mode string

const (
	// ModeLastWriteWins performs plain read-modify-write; concurrent writers
	// for the same host may lose updates.
	ModeLastWriteWins Mode = "lww"
	// ModeCompareAndSwap writes only if the revision read is still current.
	ModeCompareAndSwap Mode = "cas"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeLastWriteWins:
		return ModeLastWriteWins, nil
	case ModeCompareAndSwap:
		return ModeCompareAndSwap, nil
	default:
		return "", fmt.Errorf("unknown concurrency mode %q", s)
	}
}

var _ uptime.HistoryRepo = (*Repo)(nil)

type Repo struct {
	store  kv.Store
	prefix string
	mode   Mode
}

func NewRepo(store kv.Store, prefix string, mode Mode) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if mode == "" {
		mode = ModeLastWriteWins
	}
	return &Repo{store: store, prefix: prefix, mode: mode}
}

func (r *Repo) Key(host string) string { return r.prefix + host }

func (r *Repo) Mode() Mode { return r.mode }

func (r *Repo) Load(ctx context.Context, host string) (uptime.HostHistory, uptime.Revision, error) {
	e, err := r.store.Get(ctx, r.Key(host))
	if errors.Is(err, kv.ErrNotFound) {
		return uptime.HostHistory{}, 0, nil
	}
	if err != nil {
		return uptime.HostHistory{}, 0, fmt.Errorf("get %s: %w", r.Key(host), err)
	}
	h, err := Decode(e.Value)
	if err != nil {
		return uptime.HostHistory{}, 0, fmt.Errorf("decode %s: %w", r.Key(host), err)
	}
	return h, uptime.Revision(e.Revision), nil
}

func (r *Repo) Save(ctx context.Context, host string, h uptime.HostHistory, rev uptime.Revision, expiresAt time.Time) error {
	b, err := Encode(h)
	if err != nil {
		return err
	}
	key := r.Key(host)
	if r.mode == ModeCompareAndSwap {
		err = r.store.PutIfRevision(ctx, key, b, expiresAt, int64(rev))
	} else {
		err = r.store.Put(ctx, key, b, expiresAt)
	}
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
