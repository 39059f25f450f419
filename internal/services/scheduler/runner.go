package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	mFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_targets_fetched_total", Help: "Targets listed per tick",
	})
	mSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_messages_sent_total", Help: "Check requests published to Kafka",
	})
	mErr = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_errors_total", Help: "Errors in scheduler loop",
	})
	mLoopDur = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "scheduler_loop_duration_seconds", Help: "Scheduler tick duration",
		Buckets: prometheus.DefBuckets,
	})
)

type Runner struct {
	Log            *zap.Logger
	UC             *Usecase
	Schedule       string
	PublishTimeout time.Duration
}

func New(log *zap.Logger, uc *Usecase, schedule string, publishTimeout time.Duration) *Runner {
	return &Runner{Log: log, UC: uc, Schedule: schedule, PublishTimeout: publishTimeout}
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	if r.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.PublishTimeout)
		defer cancel()
	}

	fetched, sent, errs, err := r.UC.Tick(ctx)
	if err != nil {
		r.Log.Warn("tick error", zap.Error(err))
	}
	mFetched.Add(float64(fetched))
	mSent.Add(float64(sent))
	mErr.Add(float64(errs))
	if fetched > 0 {
		r.Log.Debug("scheduled batch", zap.Int("fetched", fetched), zap.Int("sent", sent), zap.Int("errors", errs))
	}
	mLoopDur.Observe(time.Since(start).Seconds())
}

// Run ticks once right away and then on every schedule activation until
// ctx is done. Overlapping activations are skipped.
func (r *Runner) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(r.Schedule, func() { r.tick(ctx) }); err != nil {
		return fmt.Errorf("parse schedule %q: %w", r.Schedule, err)
	}

	r.tick(ctx)
	c.Start()
	r.Log.Info("scheduler started", zap.String("schedule", r.Schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}
