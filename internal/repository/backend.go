package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/kv"
	"github.com/NordCoder/uptimekv/internal/domain/outbox"
	"github.com/NordCoder/uptimekv/internal/domain/uptime"
	"github.com/NordCoder/uptimekv/internal/repository/memory"
	pg "github.com/NordCoder/uptimekv/internal/repository/postgres"
	"github.com/NordCoder/uptimekv/internal/repository/sqlite"
	"go.uber.org/zap"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver   string        `mapstructure:"driver"`
	Postgres pg.Config     `mapstructure:"postgres"`
	SQLite   sqlite.Config `mapstructure:"sqlite"`
}

// Backend bundles the storage handles a binary needs. Outbox is nil unless
// the driver supports transactional enqueue.
type Backend struct {
	KV         kv.Store
	Transactor uptime.Transactor
	Outbox     outbox.Repository
	close      func()
}

func (b *Backend) Ping(ctx context.Context) error { return b.KV.Ping(ctx) }

func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		logger.Warn("using in-memory store; history is lost on restart")
		return &Backend{KV: memory.NewKV(), Transactor: NopTransactor{}}, nil

	case DriverPostgres:
		db, err := pg.NewDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return &Backend{
			KV:         pg.NewKVRepo(db),
			Transactor: pg.NewTransactor(db, logger),
			Outbox:     pg.NewOutboxRepo(db),
			close:      db.Close,
		}, nil

	case DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return &Backend{
			KV:         sqlite.NewKVRepo(db, time.Now),
			Transactor: NopTransactor{},
			close:      func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NopTransactor runs the function directly; used by stores whose single
// writes are already atomic.
type NopTransactor struct{}

func (NopTransactor) WithTx(ctx context.Context, function func(ctx context.Context) error) error {
	return function(ctx)
}
