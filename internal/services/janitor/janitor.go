package janitor

import (
	"context"
	"time"

	"github.com/NordCoder/uptimekv/internal/domain/kv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	mSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "janitor_expired_deleted_total", Help: "Expired documents physically removed",
	})
	mErr = promauto.NewCounter(prometheus.CounterOpts{
		Name: "janitor_errors_total", Help: "Failed sweeps",
	})
)

// Janitor periodically deletes expired documents. Reads already ignore
// them; this only reclaims space.
type Janitor struct {
	log      *zap.Logger
	sweeper  kv.Sweeper
	interval time.Duration
}

func New(log *zap.Logger, sweeper kv.Sweeper, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{log: log, sweeper: sweeper, interval: interval}
}

func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		j.sweep(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	n, err := j.sweeper.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			mErr.Inc()
			j.log.Warn("sweep expired", zap.Error(err))
		}
		return
	}
	mSwept.Add(float64(n))
	if n > 0 {
		j.log.Info("swept expired documents", zap.Int64("deleted", n))
	}
}
