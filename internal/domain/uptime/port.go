package uptime

import (
	"context"
	"time"
)

type HistoryRepo interface {
	Load(ctx context.Context, host string) (HostHistory, Revision, error)
	Save(ctx context.Context, host string, h HostHistory, rev Revision, expiresAt time.Time) error
}

type Prober interface {
	Probe(ctx context.Context, target string) ProbeRecord
}

type Clock interface {
	Now() time.Time
}

type Transactor interface {
	WithTx(ctx context.Context, function func(ctx context.Context) error) error
}
